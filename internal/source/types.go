package source

// FileID identifies an entry in a FileSet.
type FileID uint32

// File names one entry a Span's File field can point into. Since this
// repository never loads source text (spec.md §1's Non-goals), a File
// is just a name — no content, line index, or byte hash, unlike a real
// compiler's file table.
type File struct {
	ID   FileID
	Name string
}
