package ciapi

import (
	"context"

	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/schema"
)

// versionIterator pulls version history pages on demand. Once a fetch fails
// or an empty page comes back, the iterator is exhausted for good.
type versionIterator struct {
	client  *RESTClient
	project string

	page    []schema.Version
	pos     int
	offset  int
	current *schema.Version
	err     error
	done    bool
}

var _ contract.VersionIterator = &versionIterator{} // Compile-time check

// Next implements the VersionIterator interface.
func (it *versionIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}
	if it.pos >= len(it.page) {
		page, err := it.client.fetchVersionPage(ctx, it.project, it.offset)
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
		if len(page) == 0 {
			it.done = true
			return false
		}
		it.page = page
		it.pos = 0
		it.offset += len(page)
	}
	it.current = &it.page[it.pos]
	it.pos++
	return true
}

// Version implements the VersionIterator interface.
func (it *versionIterator) Version() *schema.Version {
	return it.current
}

// Err implements the VersionIterator interface.
func (it *versionIterator) Err() error {
	return it.err
}
