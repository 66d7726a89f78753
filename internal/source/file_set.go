package source

// FileSet is a name table for the virtual files a Span's File field can
// point into. internal/irb.Package uses it to give every synthesized IR
// node a stable file identity (irb/package.go's GetOrCreateFileno) even
// though this repository never reads a file off disk: the teacher's
// FileSet additionally owns content, line indices, and BOM/CRLF
// normalization for a real parser front end, none of which this engine
// has a use for, so none of it is carried here.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// AddVirtual registers name as a new file and returns its FileID, even
// if name was already registered (mirrors the teacher's Add: the latest
// registration always wins in the index).
func (fs *FileSet) AddVirtual(name string) FileID {
	normalized := normalizePath(name)
	id := FileID(len(fs.files))
	fs.files = append(fs.files, File{ID: id, Name: normalized})
	fs.index[normalized] = id
	return id
}

// GetLatest returns the most recently registered FileID for name, if any.
func (fs *FileSet) GetLatest(name string) (FileID, bool) {
	id, ok := fs.index[normalizePath(name)]
	return id, ok
}

// Get returns the file registered under id.
func (fs *FileSet) Get(id FileID) File {
	return fs.files[id]
}
