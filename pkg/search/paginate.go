package search

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// pageFunc fetches the page at cursor ("" for the first page) and returns its records along with
// the cursor of the next page, or "" once there are no more results.
type pageFunc func(ctx context.Context, cursor string) (ResultSet, string, error)

// validatePages checks a page budget: a positive count or AllPages.
func validatePages(pages int) error {
	if pages == AllPages || pages > 0 {
		return nil
	}
	return fmt.Errorf("%w: %d (use a positive number, or %d for all pages)", ErrInvalidPageCount, pages, AllPages)
}

// paginate walks a cursor paginated search, issuing at most pages requests (or until the end of
// results for AllPages). Records are kept in the order they arrive. A server that hands back the
// cursor it was just given ends the walk.
func paginate(ctx context.Context, pages int, fetch pageFunc, status func(page int)) (ResultSet, error) {
	if err := validatePages(pages); err != nil {
		return nil, err
	}

	results := make(ResultSet, 0)
	cursor := ""

	for page := 1; pages == AllPages || page <= pages; page++ {
		if status != nil {
			status(page)
		}

		hits, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		results = append(results, hits...)

		if next == "" {
			break
		}
		if next == cursor {
			log.Warnf("page %d returned the same cursor again, stopping", page)
			break
		}
		cursor = next
	}

	return results, nil
}
