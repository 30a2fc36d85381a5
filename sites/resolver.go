package sites

import (
	"net/url"
	"strings"

	"github.com/aluiziolira/go-scrape-drinks/models"
)

var hostTable = map[string]models.Retailer{
	"bws":               models.RetailerBWS,
	"liquorland":        models.RetailerLiquorland,
	"danmurphys":        models.RetailerDanMurphys,
	"firstchoiceliquor": models.RetailerFirstChoiceLiquor,
}

// Resolve maps a URL to the retailer that serves it. Hosts may carry a
// "www." or "ww2." prefix. Unrecognised hosts resolve to RetailerUnknown.
func Resolve(rawURL string) models.Retailer {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return models.RetailerUnknown
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return models.RetailerUnknown
	}
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "ww2.")

	fragment, _, _ := strings.Cut(host, ".")
	if retailer, ok := hostTable[fragment]; ok {
		return retailer
	}
	return models.RetailerUnknown
}
