package getcatalog

import (
	"net/http"

	"github.com/corray333/backend-labs/portal/internal/transport/http/respond"
)

// catalog is the reference data shown by the order form.
type catalog interface {
	Branches() []string
	SalesPersons(branch string) []string
	Categories() []string
	UOMs() []string
}

type catalogResponse struct {
	Branches     []string            `json:"branches"`
	SalesPersons map[string][]string `json:"salesPersons"`
	Categories   []string            `json:"categories"`
	UOMs         []string            `json:"uoms"`
}

// GetCatalog returns branches with their rosters, categories and UOMs.
func GetCatalog(w http.ResponseWriter, r *http.Request, cat catalog) {
	branches := cat.Branches()
	rosters := make(map[string][]string, len(branches))
	for _, branch := range branches {
		rosters[branch] = cat.SalesPersons(branch)
	}

	respond.JSON(w, r, http.StatusOK, catalogResponse{
		Branches:     branches,
		SalesPersons: rosters,
		Categories:   cat.Categories(),
		UOMs:         cat.UOMs(),
	})
}
