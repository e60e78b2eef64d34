package mend

// Part is a sealed interface representing one element of a prompt or
// response. The unexported marker method prevents external implementations.
type Part interface {
	part()
}

// TextPart contains prose or code as plain text.
type TextPart struct {
	Text string
}

func (TextPart) part() {}

// FilePart attaches a file's content under its path. MIME is a content-type
// tag such as "text/x-csharp"; transports that cannot carry attachments
// inline the content instead.
type FilePart struct {
	Path string
	MIME string
	Text string
}

func (FilePart) part() {}

// Interface compliance checks.
var (
	_ Part = TextPart{}
	_ Part = FilePart{}
)
