package api

// Top-level sections of a FAQ document.
const (
	SectionTexts     = "texts"
	SectionQuestions = "questions"
)

// TextLabel names one of the display texts in the "texts" section.
type TextLabel string

const (
	TextStart   TextLabel = "start"
	TextSelect  TextLabel = "select"
	TextUnknown TextLabel = "unknown"
)

// RequiredTexts lists the text labels every document must define,
// in the order they are checked.
var RequiredTexts = []TextLabel{TextStart, TextSelect, TextUnknown}

// RequiredSections lists the top-level sections in the order they are checked.
var RequiredSections = []string{SectionTexts, SectionQuestions}

// Texts holds the display strings shown around menus.
type Texts struct {
	Start   string `json:"start"`
	Select  string `json:"select"`
	Unknown string `json:"unknown"`
}

// DefaultTexts are active until the first document is loaded.
func DefaultTexts() Texts {
	return Texts{
		Start:   "start text",
		Select:  "select text",
		Unknown: "unknown text",
	}
}

// Set assigns the text for label. Unknown labels are ignored.
func (t *Texts) Set(label TextLabel, value string) {
	switch label {
	case TextStart:
		t.Start = value
	case TextSelect:
		t.Select = value
	case TextUnknown:
		t.Unknown = value
	}
}

// Get returns the text for label.
func (t Texts) Get(label TextLabel) string {
	switch label {
	case TextStart:
		return t.Start
	case TextSelect:
		return t.Select
	case TextUnknown:
		return t.Unknown
	}
	return ""
}
