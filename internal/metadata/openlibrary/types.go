package openlibrary

// bookResponse is one entry in the jscmd=data Books API response.
type bookResponse struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Authors  []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Subjects []struct {
		Name string `json:"name"`
	} `json:"subjects"`
	Excerpts []struct {
		Text string `json:"text"`
	} `json:"excerpts"`
	Cover struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"cover"`
}
