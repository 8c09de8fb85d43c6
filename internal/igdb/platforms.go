package igdb

import (
	"sort"

	"github.com/ryanm101/gamehub/internal/game"
)

// family groups IGDB platform ids under a parent platform. Family ids match
// the parent platform ids of the RAWG API so queries work with either source.
type family struct {
	platform game.Platform
	members  []int
}

var families = []family{
	{game.Platform{ID: 1, Name: "PC", Slug: "pc"}, []int{6}},
	{game.Platform{ID: 2, Name: "PlayStation", Slug: "playstation"}, []int{7, 8, 9, 38, 46, 48, 167}},
	{game.Platform{ID: 3, Name: "Xbox", Slug: "xbox"}, []int{11, 12, 49, 169}},
	{game.Platform{ID: 4, Name: "iOS", Slug: "ios"}, []int{39}},
	{game.Platform{ID: 5, Name: "Apple Macintosh", Slug: "mac"}, []int{14}},
	{game.Platform{ID: 6, Name: "Linux", Slug: "linux"}, []int{3}},
	{game.Platform{ID: 7, Name: "Nintendo", Slug: "nintendo"}, []int{4, 5, 18, 19, 20, 21, 37, 41, 130, 137}},
	{game.Platform{ID: 8, Name: "Android", Slug: "android"}, []int{34}},
	{game.Platform{ID: 14, Name: "Web", Slug: "web"}, []int{82}},
}

var familyOf = func() map[int]int {
	m := make(map[int]int)
	for i, f := range families {
		for _, id := range f.members {
			m[id] = i
		}
	}
	return m
}()

// parentPlatforms folds IGDB platform ids into parent platforms, in family
// table order, without duplicates.
func parentPlatforms(ids []int) []game.ParentPlatform {
	seen := make(map[int]bool)
	idx := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := familyOf[id]
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]game.ParentPlatform, 0, len(idx))
	for _, i := range idx {
		out = append(out, game.ParentPlatform{Platform: families[i].platform})
	}
	return out
}

// familyMembers returns the IGDB platform ids of a parent platform id.
func familyMembers(parentID int) ([]int, bool) {
	for _, f := range families {
		if f.platform.ID == parentID {
			return f.members, true
		}
	}
	return nil, false
}
