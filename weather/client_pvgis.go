package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/devskill-org/pvbess-engine/apperr"
	"github.com/devskill-org/pvbess-engine/geo"
)

// DefaultPVGISBaseURL is the production PVGIS seriescalc endpoint root.
const DefaultPVGISBaseURL = "https://re.jrc.ec.europa.eu/api/v5_2"

// DefaultPVGISTimeout matches §5's configurable-per-source default.
const DefaultPVGISTimeout = 120 * time.Second

// PVGISClient queries the PVGIS seriescalc endpoint.
type PVGISClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewPVGISClient builds a client against baseURL (empty uses
// DefaultPVGISBaseURL) with the given request timeout.
func NewPVGISClient(baseURL string, timeout time.Duration) *PVGISClient {
	if baseURL == "" {
		baseURL = DefaultPVGISBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultPVGISTimeout
	}
	return &PVGISClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type pvgisResponse struct {
	Outputs struct {
		Hourly []pvgisHourly `json:"hourly"`
	} `json:"outputs"`
}

type pvgisHourly struct {
	Time  string  `json:"time"`
	Gi    float64 `json:"G(i)"`
	Gbn   float64 `json:"Gb(n)"`
	Gdn   float64 `json:"Gd(n)"`
	T2m   float64 `json:"T2m"`
	WS10m float64 `json:"WS10m"`
}

// Fetch queries seriescalc for coord across [startYear, endYear] and
// returns the raw (unnormalised) frame with its source-specific columns
// already renamed into the common schema.
func (c *PVGISClient) Fetch(ctx context.Context, coord geo.Coordinate, startYear, endYear int) (*Frame, error) {
	reqURL, err := c.buildURL(coord, startYear, endYear)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourcePVGIS), "build url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourcePVGIS), "build request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourcePVGIS), "http request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apperr.NewUpstream(string(SourcePVGIS), "http status",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourcePVGIS), "read body", err)
	}

	var parsed pvgisResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.NewUpstream(string(SourcePVGIS), "unmarshal", err)
	}

	return buildFrameFromPVGIS(parsed.Outputs.Hourly), nil
}

func (c *PVGISClient) buildURL(coord geo.Coordinate, startYear, endYear int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u.Path = u.Path + "/seriescalc"

	q := u.Query()
	q.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	q.Set("startyear", strconv.Itoa(startYear))
	q.Set("endyear", strconv.Itoa(endYear))
	q.Set("outputformat", "json")
	q.Set("usehorizon", "1")
	q.Set("selectrad", "1")
	q.Set("angle", "0")
	q.Set("aspect", "0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// buildFrameFromPVGIS parses the "YYYYMMDD:hhmm" timestamp format, drops
// unparseable records silently (§4.1), localises to America/Sao_Paulo, and
// propagates Gb(n)/Gd(n) as DNI/DHI whenever PVGIS actually returned them.
func buildFrameFromPVGIS(rows []pvgisHourly) *Frame {
	loc := saoPauloLocation()
	f := &Frame{}
	for _, row := range rows {
		ts, err := time.ParseInLocation("20060102:1504", row.Time, time.UTC)
		if err != nil {
			continue
		}
		f.Timestamps = append(f.Timestamps, ts.In(loc))
		f.GHI = append(f.GHI, row.Gi)
		f.DNI = append(f.DNI, row.Gbn)
		f.DHI = append(f.DHI, row.Gdn)
		f.TempAir = append(f.TempAir, row.T2m)
		f.WindSpeed = append(f.WindSpeed, row.WS10m)
		f.Pressure = append(f.Pressure, 101325) // PVGIS seriescalc carries no pressure column
	}
	return f
}
