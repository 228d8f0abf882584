package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// catalogStatus maps a catalog client error to the response status. Remote and
// parse failures are reported as 502.
func catalogStatus(err error) int {
	var (
		nf *catalog.NotFoundError
		re *catalog.RemoteError
	)
	if errors.As(err, &nf) || (errors.As(err, &re) && re.StatusCode == http.StatusNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	code := catalogStatus(err)
	if code == http.StatusNotFound {
		writeError(w, code, "Product not found")
		return
	}
	requestLog(r).WithError(err).Error("catalog request failed")
	writeError(w, code, "Catalog unavailable")
}
