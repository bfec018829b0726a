package mars

// Kind is the runtime kind of a status display object.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCanvas
	KindPad
	KindCamera
	KindHist1F
	KindHist1D
	KindFunc
	KindText
	KindFrame
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindCanvas:  "canvas",
	KindPad:     "pad",
	KindCamera:  "camera",
	KindHist1F:  "hist1f",
	KindHist1D:  "hist1d",
	KindFunc:    "func",
	KindText:    "text",
	KindFrame:   "frame",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// kindByClass is the closed table of class names with a known kind. Classes
// not listed are KindUnknown.
var kindByClass = map[string]Kind{
	"TCanvas":    KindCanvas,
	"TPad":       KindPad,
	"MHCamera":   KindCamera,
	"TH1F":       KindHist1F,
	"TH1D":       KindHist1D,
	"TF1":        KindFunc,
	"TPaveText":  KindText,
	"TPaveLabel": KindText,
	"TPaveStats": KindText,
	"TText":      KindText,
	"TLatex":     KindText,
	"TLegend":    KindText,
	"TFrame":     KindFrame,
}

// KindOf returns the kind of a class name.
func KindOf(className string) Kind {
	return kindByClass[className]
}

// decorative reports whether objects of kind k are dropped from the index.
func (k Kind) decorative() bool {
	return k == KindText || k == KindFrame
}
