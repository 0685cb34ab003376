// Package advisory fetches AI-generated footwear guidance for a computed
// foot classification. A fetch or parse failure is never fatal, the
// advisory panel simply stays empty.
package advisory

// Exercise is a single recommended strengthening exercise.
type Exercise struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction"`
}

// Content is the advisory payload for one analysis: a free-text
// explanation, an ordered list of shoe model names, and one exercise.
type Content struct {
	Explanation string   `json:"explanation"`
	Shoes       []string `json:"shoes"`
	Exercise    Exercise `json:"exercise"`
}

// Empty reports whether the content carries nothing worth showing.
func (c *Content) Empty() bool {
	return c == nil || (c.Explanation == "" && len(c.Shoes) == 0 && c.Exercise.Name == "")
}

// Request identifies one advisory fetch.
type Request struct {
	Classification string
	ShoeSize       string
	CSI            float64
	SI             float64
}
