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

// DefaultNASABaseURL is the NASA POWER hourly point endpoint.
const DefaultNASABaseURL = "https://power.larc.nasa.gov/api/temporal/hourly/point"

// DefaultNASATimeout matches §5's configurable-per-source default.
const DefaultNASATimeout = 60 * time.Second

// NASAClient queries the NASA POWER hourly renewable-energy community API.
type NASAClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewNASAClient builds a client against baseURL (empty uses
// DefaultNASABaseURL) with the given request timeout.
func NewNASAClient(baseURL string, timeout time.Duration) *NASAClient {
	if baseURL == "" {
		baseURL = DefaultNASABaseURL
	}
	if timeout <= 0 {
		timeout = DefaultNASATimeout
	}
	return &NASAClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type nasaResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// nasaParam returns the hourly series for any of the candidate parameter
// names, accepting both the mapped lower-profile name PVGIS-adjacent code
// might expect and NASA's own upper-case parameter code (§4.1 "accept both
// mapped and upper-case column names").
func nasaParam(props map[string]map[string]float64, candidates ...string) map[string]float64 {
	for _, name := range candidates {
		if series, ok := props[name]; ok {
			return series
		}
	}
	return nil
}

// Fetch requests the two most-recent complete years of hourly data ending
// at asOf (typically time.Now()).
func (c *NASAClient) Fetch(ctx context.Context, coord geo.Coordinate, asOf time.Time) (*Frame, error) {
	endYear := asOf.Year() - 1
	startYear := endYear - 1

	reqURL, err := c.buildURL(coord, startYear, endYear)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourceNASA), "build url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourceNASA), "build request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourceNASA), "http request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apperr.NewUpstream(string(SourceNASA), "http status",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewUpstream(string(SourceNASA), "read body", err)
	}

	var parsed nasaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.NewUpstream(string(SourceNASA), "unmarshal", err)
	}

	return buildFrameFromNASA(parsed.Properties.Parameter), nil
}

func (c *NASAClient) buildURL(coord geo.Coordinate, startYear, endYear int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("parameters", "ALLSKY_SFC_SW_DWN,T2M,WS10M,PS")
	q.Set("community", "RE")
	q.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	q.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	q.Set("start", fmt.Sprintf("%d0101", startYear))
	q.Set("end", fmt.Sprintf("%d1231", endYear))
	q.Set("format", "JSON")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// buildFrameFromNASA assembles the frame from NASA's per-parameter hourly
// maps keyed by "YYYYMMDDHH". NASA carries no DNI/DHI parameter — GHI
// (ALLSKY_SFC_SW_DWN) is the only irradiance column populated, and DNI/DHI
// are left at zero for downstream decomposition, per §3.
func buildFrameFromNASA(params map[string]map[string]float64) *Frame {
	ghiSeries := nasaParam(params, "ALLSKY_SFC_SW_DWN", "allsky_sfc_sw_dwn")
	tempSeries := nasaParam(params, "T2M", "t2m")
	windSeries := nasaParam(params, "WS10M", "ws10m")
	pressureSeries := nasaParam(params, "PS", "ps")

	loc := saoPauloLocation()
	f := &Frame{}
	for key, ghi := range ghiSeries {
		ts, err := time.ParseInLocation("2006010215", key, time.UTC)
		if err != nil {
			continue
		}
		f.Timestamps = append(f.Timestamps, ts.In(loc))
		f.GHI = append(f.GHI, ghi)
		f.DNI = append(f.DNI, 0)
		f.DHI = append(f.DHI, 0)
		f.TempAir = append(f.TempAir, tempSeries[key])
		f.WindSpeed = append(f.WindSpeed, windSeries[key])
		if p, ok := pressureSeries[key]; ok && p > 0 {
			// NASA POWER reports surface pressure in kPa.
			f.Pressure = append(f.Pressure, p*1000)
		} else {
			f.Pressure = append(f.Pressure, 101325)
		}
	}
	sortFrameByTime(f)
	return f
}
