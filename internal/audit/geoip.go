package audit

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const unknownLocation = "unknown"

// Locator resolves an IP to a human-readable location. Lookups are best
// effort: failures yield "unknown" and never abort the audited call.
type Locator interface {
	Locate(ip string) string
}

type geoResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

// GeoClient looks locations up against an ip-api compatible endpoint.
type GeoClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewGeoClient(baseURL string, logger *zap.Logger) *GeoClient {
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(3 * time.Second).
		SetHeader("Accept", "application/json")

	return &GeoClient{httpClient: client, logger: logger}
}

func (c *GeoClient) Locate(ip string) string {
	if ip == "" || ip == "127.0.0.1" {
		return unknownLocation
	}

	var geo geoResponse
	resp, err := c.httpClient.R().
		SetResult(&geo).
		Get("/" + ip)
	if err != nil || resp.IsError() || geo.Status == "fail" {
		c.logger.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))
		return unknownLocation
	}
	if geo.Country == "" {
		return unknownLocation
	}
	return fmt.Sprintf("%s-%s-%s", geo.Country, geo.RegionName, geo.City)
}
