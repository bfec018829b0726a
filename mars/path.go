package mars

import "strings"

// KeySeparator joins path segments into status index keys.
const KeySeparator = "_"

// JoinKey joins path segments, outermost first, into an index key.
//
// Examples:
//   - ("Pix5") -> "Pix5"
//   - ("Cams1", "Pix5") -> "Cams1_Pix5"
func JoinKey(segments ...string) string {
	return strings.Join(segments, KeySeparator)
}

// JoinPath joins path segments into a slash separated object path.
//
// Examples:
//   - () -> "/"
//   - ("Cams1", "pad1", "Gain") -> "/Cams1/pad1/Gain"
func JoinPath(segments ...string) string {
	return "/" + strings.Join(segments, "/")
}

// SplitPath splits an object path into its segments.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/Cams1/Gain" -> []string{"Cams1", "Gain"}
//   - "Cams1//Gain/" -> []string{"Cams1", "Gain"}
func SplitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
