package codec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/shedtally/internal/model"
)

// placeholderStandName matches the default header the sheet gives an unnamed stand.
// A shearer whose real name is literally "Stand 7" is also treated as unassigned.
var placeholderStandName = regexp.MustCompile(`(?i)^stand\s*\d+$`)

// IsPlaceholderStandName reports whether name is blank or a "Stand <n>" default.
func IsPlaceholderStandName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || placeholderStandName.MatchString(name)
}

// ResolveStandNames returns the shearer name for each of width stand positions.
//
// Stored indexes are used when they are unique. Documents that start numbering
// at 1 (index 0 absent, index 1 present) are shifted down by one. Duplicate
// indexes, which older documents wrote for bare name lists, fall back to array
// position. Unassigned stands resolve to "Stand {position+1}".
func ResolveStandNames(stands []model.Stand, width int) []string {
	width = max(width, len(stands))
	names := make([]string, width)

	byIndex := make(map[int]string, len(stands))
	positional := false
	for _, st := range stands {
		if _, dup := byIndex[st.Index]; dup {
			positional = true
			break
		}
		byIndex[st.Index] = st.Name
	}

	if positional {
		for i, st := range stands {
			names[i] = st.Name
		}
	} else {
		_, hasZero := byIndex[0]
		_, hasOne := byIndex[1]
		offset := 0
		if !hasZero && hasOne {
			offset = 1
		}
		for idx, name := range byIndex {
			if pos := idx - offset; pos >= 0 && pos < width {
				names[pos] = name
			}
		}
	}

	for i, name := range names {
		if IsPlaceholderStandName(name) {
			names[i] = fmt.Sprintf("Stand %d", i+1)
			continue
		}
		names[i] = strings.TrimSpace(name)
	}
	return names
}
