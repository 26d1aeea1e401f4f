package grades

// Grade families: V-scale for boulder and board problems (shared id space),
// French scale for lead routes. Grade ids are family-scoped integers and
// never comparable across families.

type Family string

const (
	FamilyVScale Family = "v-scale"
	FamilyFrench Family = "french"
)

// LeadGoalGradeFloor is the smallest French grade id tracked by quarterly
// goals. Grades below this floor are loggable but never goal targets.
const LeadGoalGradeFloor = 8

type Grade struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

var vScale = []Grade{
	{ID: 1, Label: "V0"},
	{ID: 2, Label: "V1"},
	{ID: 3, Label: "V2"},
	{ID: 4, Label: "V3"},
	{ID: 5, Label: "V4"},
	{ID: 6, Label: "V5"},
	{ID: 7, Label: "V6"},
	{ID: 8, Label: "V7"},
	{ID: 9, Label: "V8"},
	{ID: 10, Label: "V9"},
	{ID: 11, Label: "V10"},
	{ID: 12, Label: "V11"},
	{ID: 13, Label: "V12"},
	{ID: 14, Label: "V13"},
	{ID: 15, Label: "V14"},
	{ID: 16, Label: "V15"},
	{ID: 17, Label: "V16"},
	{ID: 18, Label: "V17"},
}

var french = []Grade{
	{ID: 1, Label: "4a"},
	{ID: 2, Label: "4b"},
	{ID: 3, Label: "4c"},
	{ID: 4, Label: "5a"},
	{ID: 5, Label: "5b"},
	{ID: 6, Label: "5c"},
	{ID: 7, Label: "6a"},
	{ID: 8, Label: "6a+"},
	{ID: 9, Label: "6b"},
	{ID: 10, Label: "6b+"},
	{ID: 11, Label: "6c"},
	{ID: 12, Label: "6c+"},
	{ID: 13, Label: "7a"},
	{ID: 14, Label: "7a+"},
	{ID: 15, Label: "7b"},
	{ID: 16, Label: "7b+"},
	{ID: 17, Label: "7c"},
	{ID: 18, Label: "7c+"},
	{ID: 19, Label: "8a"},
	{ID: 20, Label: "8a+"},
	{ID: 21, Label: "8b"},
	{ID: 22, Label: "8b+"},
	{ID: 23, Label: "8c"},
	{ID: 24, Label: "9a"},
}

// VScale returns the boulder/board grade definitions, easiest first.
func VScale() []Grade {
	out := make([]Grade, len(vScale))
	copy(out, vScale)
	return out
}

// French returns the lead grade definitions, easiest first.
func French() []Grade {
	out := make([]Grade, len(french))
	copy(out, french)
	return out
}

func ForFamily(family Family) []Grade {
	switch family {
	case FamilyVScale:
		return VScale()
	case FamilyFrench:
		return French()
	default:
		return nil
	}
}

// LabelFor returns the display label for a grade id, or an empty string
// when the id has no definition. Unknown ids are a degraded state of old
// log rows, not an error.
func LabelFor(family Family, id int) string {
	for _, g := range ForFamily(family) {
		if g.ID == id {
			return g.Label
		}
	}
	return ""
}

// NaturalLess compares two grade labels with numeric-aware ordering,
// so that "V9" sorts before "V10" and "6a+" after "6a".
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			aNum, aRest := leadingInt(a)
			bNum, bRest := leadingInt(b)
			if aNum != bNum {
				return aNum < bNum
			}
			a, b = aRest, bRest
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func leadingInt(s string) (int, string) {
	i := 0
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}
