package backend

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability/metrics"
)

const testBaseURL = "http://backend.test/api"

func newMockedClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()

	client, err := NewClient(Config{BaseURL: testBaseURL + "/", Token: "secret", Timeout: 2 * time.Second})
	require.NoError(t, err)
	client.retryDelay = time.Millisecond
	t.Cleanup(client.Close)

	mock := httpmock.NewMockTransport()
	client.HTTPClient().Transport = mock
	return client, mock
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestListContainers_ArrayAndEnvelope(t *testing.T) {
	client, mock := newMockedClient(t)

	mock.RegisterResponder(http.MethodGet, testBaseURL+"/tachos/",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Token secret", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `[{"id": 1}, {"id": 2}]`), nil
		})
	mock.RegisterResponder(http.MethodGet, testBaseURL+"/detecciones/",
		httpmock.NewStringResponder(http.StatusOK, `{"count": 1, "results": [{"id": 5}]}`))

	containers, err := client.ListContainers(t.Context())
	require.NoError(t, err)
	assert.Len(t, containers, 2)

	detections, err := client.ListDetections(t.Context())
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, json.Number("5"), detections[0]["id"])
}

func TestList_RetriesServerErrors(t *testing.T) {
	client, mock := newMockedClient(t)

	calls := 0
	mock.RegisterResponder(http.MethodGet, testBaseURL+"/tachos/",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(http.StatusBadGateway, "bad gateway"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})

	items, err := client.ListContainers(t.Context())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 3, calls)
}

func TestList_ClientErrorIsNotRetried(t *testing.T) {
	client, mock := newMockedClient(t)

	mock.RegisterResponder(http.MethodGet, testBaseURL+"/tachos/",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"detail": "Token inválido."}`))

	_, err := client.ListContainers(t.Context())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.JSONEq(t, `{"detail": "Token inválido."}`, string(apiErr.Body))
	assert.Equal(t, 1, mock.GetTotalCallCount())
}

func TestList_InvalidJSON(t *testing.T) {
	client, mock := newMockedClient(t)

	mock.RegisterResponder(http.MethodGet, testBaseURL+"/detecciones/",
		httpmock.NewStringResponder(http.StatusOK, `{invalid`))

	_, err := client.ListDetections(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestLookup_IsCached(t *testing.T) {
	client, mock := newMockedClient(t)
	registry := prometheus.NewRegistry()
	m, err := metrics.NewBackendMetrics(registry)
	require.NoError(t, err)
	client.SetMetrics(m)

	mock.RegisterResponder(http.MethodGet, testBaseURL+"/provincias/",
		httpmock.NewStringResponder(http.StatusOK, `[{"id": 1, "nombre": "Azuay"}]`))

	for range 3 {
		items, err := client.Lookup(t.Context(), LookupProvinces)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Azuay", items[0]["nombre"])
	}

	assert.Equal(t, 1, mock.GetTotalCallCount())
	assert.Equal(t, 2, testutil.CollectAndCount(m, "ecotachos_backend_lookup_cache_total"), "one hit and one miss series")
}

func TestDeactivate_ActivoAccepted(t *testing.T) {
	client, mock := newMockedClient(t)

	var bodies []string
	mock.RegisterResponder(http.MethodPatch, testBaseURL+"/tachos/7/",
		func(req *http.Request) (*http.Response, error) {
			data, _ := io.ReadAll(req.Body)
			bodies = append(bodies, string(data))
			return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
		})

	require.NoError(t, client.Deactivate(t.Context(), ResourceContainers, 7))
	require.Len(t, bodies, 1)
	assert.JSONEq(t, `{"activo": false}`, bodies[0])
}

func TestDeactivate_FallsBackToEstado(t *testing.T) {
	client, mock := newMockedClient(t)

	var bodies []string
	mock.RegisterResponder(http.MethodPatch, testBaseURL+"/detecciones/3/",
		func(req *http.Request) (*http.Response, error) {
			data, _ := io.ReadAll(req.Body)
			bodies = append(bodies, string(data))
			if len(bodies) == 1 {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"activo": ["campo desconocido"]}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
		})

	require.NoError(t, client.Deactivate(t.Context(), ResourceDetections, 3))
	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{"estado": "inactivo"}`, bodies[1])
}

func TestDeactivate_OtherErrorsAreNotRetried(t *testing.T) {
	client, mock := newMockedClient(t)

	mock.RegisterResponder(http.MethodPatch, testBaseURL+"/tachos/9/",
		httpmock.NewStringResponder(http.StatusNotFound, `{"detail": "No encontrado."}`))

	err := client.Deactivate(t.Context(), ResourceContainers, 9)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
	assert.Equal(t, 1, mock.GetTotalCallCount())
}

func TestCreateDetection_Multipart(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "capture.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg-bytes"), 0o600))

	var form map[string][]string
	var fileName, fileContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/detecciones/", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form = r.MultipartForm.Value

		file, header, err := r.FormFile("imagen")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		fileName, fileContent = header.Filename, string(data)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 44, "tacho": 2}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/api"})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	created, err := client.CreateDetection(t.Context(), DetectionUpload{
		Fields: []FormField{
			{Name: "tacho", Value: "2"},
			{Name: "clasificacion", Value: "reciclable"},
			{Name: "confianza_ia", Value: "72.50"},
		},
		ImagePath: imagePath,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, form["tacho"])
	assert.Equal(t, []string{"72.50"}, form["confianza_ia"])
	assert.Equal(t, "capture.jpg", fileName)
	assert.Equal(t, "jpeg-bytes", fileContent)
	assert.Equal(t, float64(44), created["id"])
}

func TestCreateDetection_ValidationError(t *testing.T) {
	client, mock := newMockedClient(t)

	mock.RegisterResponder(http.MethodPost, testBaseURL+"/detecciones/",
		httpmock.NewStringResponder(http.StatusBadRequest, `{"codigo": ["ya existe"]}`))

	_, err := client.CreateDetection(t.Context(), DetectionUpload{Fields: []FormField{{Name: "tacho", Value: "1"}}})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 1, mock.GetTotalCallCount(), "submissions are never retried")
}

func TestEndpointLabel(t *testing.T) {
	client, err := NewClient(Config{BaseURL: testBaseURL})
	require.NoError(t, err)

	assert.Equal(t, "tachos", client.endpointLabel("/api/tachos/"))
	assert.Equal(t, "detecciones", client.endpointLabel("/api/detecciones/12/"))
	assert.Equal(t, "root", client.endpointLabel("/api/"))
}
