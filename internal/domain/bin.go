package domain

// Bin is a physical storage location for a themed group of books.
type Bin string

// Warehouse bins. Each maps to a physical shelving area.
const (
	BinPicture  Bin = "PICTURE"  // picture books
	BinEarly    Bin = "EARLY"    // early readers
	BinChapter  Bin = "CHAPTER"  // chapter books
	BinMiddle   Bin = "MIDDLE"   // middle grade novels
	BinNonfic   Bin = "NONFIC"   // general nonfiction
	BinLife     Bin = "LIFE"     // animals, nature, everyday life
	BinClassics Bin = "CLASSICS" // curated classics
	BinStem     Bin = "STEM"     // science, math, technology
)

// Bins returns all bins in declared order.
func Bins() []Bin {
	return []Bin{BinPicture, BinEarly, BinChapter, BinMiddle, BinNonfic, BinLife, BinClassics, BinStem}
}

// Valid reports whether b is a known bin.
func (b Bin) Valid() bool {
	for _, known := range Bins() {
		if b == known {
			return true
		}
	}
	return false
}
