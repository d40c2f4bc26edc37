package allocator

import (
	"cmp"
	"slices"

	"github.com/plazacoche/charger-rota/pkg/db"
)

// RankUsers orders users by the hours they used in the prior week, least first, so the
// least-served users are allocated before anyone else. Users without an entry in priorHours
// count as having used 0 hours. Ties keep their original order.
//
// The input slice is left untouched; a sorted copy is returned.
func RankUsers(users []db.User, priorHours map[string]int) []db.User {
	ranked := slices.Clone(users)

	slices.SortStableFunc(ranked, func(a, b db.User) int {
		return cmp.Compare(priorHours[a.ID], priorHours[b.ID])
	})

	return ranked
}
