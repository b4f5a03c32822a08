package diag

// Location points at an item of a schema file. Path is the logical position
// inside the document, e.g. "provider[0].class[1].field[2]"; it is empty for
// file-level problems.
type Location struct {
	File string
	Path string
}

func (l Location) String() string {
	switch {
	case l.File == "" && l.Path == "":
		return "<schema>"
	case l.File == "":
		return l.Path
	case l.Path == "":
		return l.File
	}
	return l.File + ":" + l.Path
}

type Note struct {
	Location Location
	Msg      string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Location Location
	Notes    []Note
}
