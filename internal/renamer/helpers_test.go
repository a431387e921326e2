package renamer

import "github.com/Nomadcxx/tvtools/internal/scanner"

func snapshotOf(names ...string) []scanner.Entry {
	return scanner.NumberedEntries(names)
}
