package validation

import domval "github.com/kailas-cloud/listcheck/internal/domain/validation"

// Retriever answers nearest-neighbour queries over the reference catalog.
type Retriever interface {
	TopK(query string, k int) []domval.Neighbour
}
