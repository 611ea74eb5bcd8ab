package score

// Category is one of the five evaluation dimensions combined into the final score.
type Category int

// Categories in weight vector order.
const (
	Cost Category = iota
	Air
	Education
	Safety
	Health
)

// NumCategories is the length of the weight and component vectors.
const NumCategories = 5

// Categories lists every category in weight vector order.
var Categories = [NumCategories]Category{Cost, Air, Education, Safety, Health}

var categoryNames = [NumCategories]string{"cost", "air", "education", "safety", "health"}

func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Components holds one score per category, indexed by Category.
type Components [NumCategories]Score
