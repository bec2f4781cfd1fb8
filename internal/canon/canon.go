// Package canon lists the books of the Protestant canon by their USFM codes,
// the ids API.Bible uses for books.
package canon

import "strings"

// Book is one book of the canon.
type Book struct {
	ID   string
	Name string
}

var books = []Book{
	{"GEN", "Genesis"}, {"EXO", "Exodus"}, {"LEV", "Leviticus"}, {"NUM", "Numbers"},
	{"DEU", "Deuteronomy"}, {"JOS", "Joshua"}, {"JDG", "Judges"}, {"RUT", "Ruth"},
	{"1SA", "1 Samuel"}, {"2SA", "2 Samuel"}, {"1KI", "1 Kings"}, {"2KI", "2 Kings"},
	{"1CH", "1 Chronicles"}, {"2CH", "2 Chronicles"}, {"EZR", "Ezra"}, {"NEH", "Nehemiah"},
	{"EST", "Esther"}, {"JOB", "Job"}, {"PSA", "Psalms"}, {"PRO", "Proverbs"},
	{"ECC", "Ecclesiastes"}, {"SNG", "Song of Solomon"}, {"ISA", "Isaiah"}, {"JER", "Jeremiah"},
	{"LAM", "Lamentations"}, {"EZK", "Ezekiel"}, {"DAN", "Daniel"}, {"HOS", "Hosea"},
	{"JOL", "Joel"}, {"AMO", "Amos"}, {"OBA", "Obadiah"}, {"JON", "Jonah"},
	{"MIC", "Micah"}, {"NAM", "Nahum"}, {"HAB", "Habakkuk"}, {"ZEP", "Zephaniah"},
	{"HAG", "Haggai"}, {"ZEC", "Zechariah"}, {"MAL", "Malachi"},
	{"MAT", "Matthew"}, {"MRK", "Mark"}, {"LUK", "Luke"}, {"JHN", "John"},
	{"ACT", "Acts"}, {"ROM", "Romans"}, {"1CO", "1 Corinthians"}, {"2CO", "2 Corinthians"},
	{"GAL", "Galatians"}, {"EPH", "Ephesians"}, {"PHP", "Philippians"}, {"COL", "Colossians"},
	{"1TH", "1 Thessalonians"}, {"2TH", "2 Thessalonians"}, {"1TI", "1 Timothy"}, {"2TI", "2 Timothy"},
	{"TIT", "Titus"}, {"PHM", "Philemon"}, {"HEB", "Hebrews"}, {"JAS", "James"},
	{"1PE", "1 Peter"}, {"2PE", "2 Peter"}, {"1JN", "1 John"}, {"2JN", "2 John"},
	{"3JN", "3 John"}, {"JUD", "Jude"}, {"REV", "Revelation"},
}

var byKey = func() map[string]Book {
	m := make(map[string]Book, len(books)*2)
	for _, b := range books {
		m[b.ID] = b
		m[normalize(b.Name)] = b
	}
	// Common alternates.
	m["PSALM"] = m["PSA"]
	m["SONGOFSONGS"] = m["SNG"]
	return m
}()

func normalize(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}

// Name returns the display name for a book id, or the id itself when the
// book is not in the canon.
func Name(id string) string {
	if b, ok := byKey[strings.ToUpper(id)]; ok {
		return b.Name
	}
	return id
}

// Lookup finds a book by id ("gen") or name ("1 John", "Psalm").
func Lookup(s string) (Book, bool) {
	b, ok := byKey[normalize(s)]
	return b, ok
}

// Books returns the canon in order.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}
