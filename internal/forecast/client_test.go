package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func sampleResponse(n int) map[string]interface{} {
	times := make([]string, n)
	precip := make([]float64, n)
	temps := make([]float64, n)
	humidity := make([]float64, n)
	wind := make([]float64, n)
	windDir := make([]float64, n)
	base := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		times[i] = base.Add(time.Duration(i) * time.Hour).Format("2006-01-02T15:04")
		temps[i] = 18.5
		humidity[i] = 55
		wind[i] = 4.2
	}
	return map[string]interface{}{
		"timezone": "UTC",
		"hourly": map[string]interface{}{
			"time":                 times,
			"precipitation":        precip,
			"temperature_2m":       temps,
			"relative_humidity_2m": humidity,
			"wind_speed_10m":       wind,
			"wind_direction_10m":   windDir,
		},
	}
}

func TestOpenMeteoClient_Hourly_Success(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sampleResponse(24))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(server.URL, 2*time.Second)
	series, err := client.Hourly(context.Background(), Query{Latitude: 40.4, Longitude: -3.7})
	if err != nil {
		t.Fatalf("Hourly() unexpected error: %v", err)
	}

	if series.Len() != 24 {
		t.Errorf("series.Len() = %d, want 24", series.Len())
	}
	if len(series.Precipitation) != 24 || len(series.Temperature) != 24 || len(series.WindSpeed) != 24 {
		t.Error("required columns must match time length")
	}
	if series.Humidity == nil {
		t.Error("humidity column present in payload, want non-nil slice")
	}

	if gotQuery.Get("latitude") != "40.4" {
		t.Errorf("latitude param = %q, want 40.4", gotQuery.Get("latitude"))
	}
	if gotQuery.Get("longitude") != "-3.7" {
		t.Errorf("longitude param = %q, want -3.7", gotQuery.Get("longitude"))
	}
	if gotQuery.Get("hourly") != hourlyVariables {
		t.Errorf("hourly param = %q, want %q", gotQuery.Get("hourly"), hourlyVariables)
	}
	if gotQuery.Get("timezone") != "auto" {
		t.Errorf("timezone param = %q, want auto", gotQuery.Get("timezone"))
	}
	if gotQuery.Has("start_date") {
		t.Error("start_date should be absent when not requested")
	}
}

func TestOpenMeteoClient_Hourly_DateRangeParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(sampleResponse(24))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(server.URL, 2*time.Second)
	q := Query{Latitude: 40.4, Longitude: -3.7, StartDate: "2024-05-10", EndDate: "2024-05-10"}
	if _, err := client.Hourly(context.Background(), q); err != nil {
		t.Fatalf("Hourly() unexpected error: %v", err)
	}
	if gotQuery.Get("start_date") != "2024-05-10" || gotQuery.Get("end_date") != "2024-05-10" {
		t.Errorf("date range params = %q/%q, want 2024-05-10/2024-05-10",
			gotQuery.Get("start_date"), gotQuery.Get("end_date"))
	}
}

func TestOpenMeteoClient_Hourly_OptionalColumnsAbsent(t *testing.T) {
	resp := sampleResponse(6)
	hourly := resp["hourly"].(map[string]interface{})
	delete(hourly, "relative_humidity_2m")
	delete(hourly, "wind_direction_10m")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewOpenMeteoClient(server.URL, 2*time.Second)
	series, err := client.Hourly(context.Background(), Query{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("Hourly() unexpected error: %v", err)
	}
	if series.Humidity != nil {
		t.Error("absent humidity column should decode to nil")
	}
	if series.WindDirection != nil {
		t.Error("absent wind direction column should decode to nil")
	}
}

func TestOpenMeteoClient_Hourly_UpstreamStatus(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		client := NewOpenMeteoClient(server.URL, 2*time.Second)
		_, err := client.Hourly(context.Background(), Query{Latitude: 1, Longitude: 1})
		server.Close()

		var statusErr *UpstreamStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("Hourly() error = %v, want UpstreamStatusError", err)
		}
		if statusErr.StatusCode != code {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, code)
		}
	}
}

func TestOpenMeteoClient_Hourly_BadPayload(t *testing.T) {
	mismatched := sampleResponse(6)
	mismatched["hourly"].(map[string]interface{})["precipitation"] = []float64{0, 0}

	badHumidity := sampleResponse(6)
	badHumidity["hourly"].(map[string]interface{})["relative_humidity_2m"] = []float64{50}

	badTime := sampleResponse(2)
	badTime["hourly"].(map[string]interface{})["time"] = []string{"nonsense", "also nonsense"}

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing hourly field", map[string]interface{}{"latitude": 1.0}},
		{"mismatched required column", mismatched},
		{"mismatched optional column", badHumidity},
		{"unparsable timestamps", badTime},
		{"not json", "plain text"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if s, ok := tc.body.(string); ok {
					_, _ = w.Write([]byte(s))
					return
				}
				_ = json.NewEncoder(w).Encode(tc.body)
			}))
			defer server.Close()

			client := NewOpenMeteoClient(server.URL, 2*time.Second)
			_, err := client.Hourly(context.Background(), Query{Latitude: 1, Longitude: 1})
			if !errors.Is(err, ErrBadPayload) {
				t.Errorf("Hourly() error = %v, want ErrBadPayload", err)
			}
		})
	}
}

func TestOpenMeteoClient_RawHourly_Passthrough(t *testing.T) {
	raw := `{"hourly":{"time":["2024-05-10T00:00"],"precipitation":[0],"temperature_2m":[18.5]}}`
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(raw))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(server.URL, 2*time.Second)
	body, err := client.RawHourly(context.Background(), Query{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("RawHourly() unexpected error: %v", err)
	}
	if string(body) != raw {
		t.Errorf("RawHourly() body = %q, want untouched provider body", string(body))
	}
	if gotQuery.Get("hourly") != rawVariables {
		t.Errorf("hourly param = %q, want %q", gotQuery.Get("hourly"), rawVariables)
	}
}

func TestOpenMeteoClient_Hourly_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewOpenMeteoClient(server.URL, 50*time.Millisecond)
	_, err := client.Hourly(context.Background(), Query{Latitude: 1, Longitude: 1})
	if err == nil {
		t.Fatal("Hourly() expected timeout error, got nil")
	}
}
