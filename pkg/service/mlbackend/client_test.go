package mlbackend_test

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
)

func TestCreateSession(t *testing.T) {
	t.Run("returns the server-issued id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.Method).Equal(http.MethodPost)
			gt.Value(t, r.URL.Path).Equal("/api/regression/session")
			gt.Value(t, r.Header.Get("Content-Type")).Equal("application/json")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"session_id": "srv-123"}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()

		id, err := client.CreateSession(context.Background(), types.ToolRegression, "my session")
		gt.NoError(t, err).Required()
		gt.Value(t, id).Equal(types.SessionID("srv-123"))
	})

	t.Run("missing session_id is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()

		_, err = client.CreateSession(context.Background(), types.ToolRegression, "x")
		gt.Error(t, err)
	})
}

func TestUpload(t *testing.T) {
	t.Run("sends multipart form data with the file field", func(t *testing.T) {
		var gotContentType string
		var gotFileName string
		var gotFileBody string
		var gotQuery map[string][]string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			gotQuery = r.URL.Query()

			mediaType, params, err := mime.ParseMediaType(gotContentType)
			if err != nil || mediaType != "multipart/form-data" {
				http.Error(w, "bad content type", http.StatusBadRequest)
				return
			}
			mr := multipart.NewReader(r.Body, params["boundary"])
			part, err := mr.NextPart()
			if err != nil {
				http.Error(w, "no part", http.StatusBadRequest)
				return
			}
			gotFileName = part.FileName()
			body, _ := io.ReadAll(part)
			gotFileBody = string(body)

			_, _ = w.Write([]byte(`{"success": true, "columns": ["a", "b"]}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()

		file := &mlbackend.UploadFile{
			Name:        "data.csv",
			ContentType: "text/csv",
			Size:        8,
			Reader:      strings.NewReader("a,b\n1,2\n"),
		}
		result, err := client.Upload(context.Background(), "/api/regression/upload", "sess-1", file, mlbackend.UploadParams{
			TargetColumn: "b",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, strings.HasPrefix(gotContentType, "multipart/form-data")).Equal(true)
		gt.Value(t, gotFileName).Equal("data.csv")
		gt.Value(t, gotFileBody).Equal("a,b\n1,2\n")
		gt.Value(t, gotQuery["session_id"][0]).Equal("sess-1")
		gt.Value(t, gotQuery["target_column"][0]).Equal("b")

		gt.Value(t, result.Success()).Equal(true)
		gt.Array(t, result.Columns()).Length(2)
	})
}

func TestStatusError(t *testing.T) {
	t.Run("non-2xx responses surface a StatusError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()

		_, err = client.Results(context.Background(), "/api/regression/results", "sess-1")
		gt.Error(t, err)

		var statusErr *mlbackend.StatusError
		gt.Value(t, errors.As(err, &statusErr)).Equal(true)
		gt.Value(t, statusErr.Code).Equal(http.StatusBadGateway)
		gt.Value(t, statusErr.Body).Equal("boom")
	})
}

func TestPredict(t *testing.T) {
	t.Run("features travel in the JSON body", func(t *testing.T) {
		var gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			_, _ = w.Write([]byte(`{"success": true, "prediction": 42.0}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()

		result, err := client.Predict(context.Background(), "/api/regression/predict", "sess-1", map[string]any{
			"age": 34,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, strings.Contains(gotBody, `"session_id":"sess-1"`)).Equal(true)
		gt.Value(t, strings.Contains(gotBody, `"age":34`)).Equal(true)
		gt.Value(t, result.Raw()["prediction"]).Equal(42.0)
	})
}

func TestTrainingStatus(t *testing.T) {
	t.Run("decodes state and progress", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/api/nlp/status")
			gt.Value(t, r.URL.Query().Get("session_id")).Equal("sess-9")
			_, _ = w.Write([]byte(`{"state": "running", "progress": 0.4, "message": "epoch 2"}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()

		status, err := client.TrainingStatus(context.Background(), types.ToolNLP, "sess-9")
		gt.NoError(t, err).Required()

		gt.Value(t, status.State).Equal(mlbackend.TrainingStateRunning)
		gt.Value(t, status.Progress).Equal(0.4)
		gt.Value(t, status.Message).Equal("epoch 2")
		gt.Value(t, status.Done()).Equal(false)
	})

	t.Run("missing state defaults to running", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()

		status, err := client.TrainingStatus(context.Background(), types.ToolNLP, "sess-9")
		gt.NoError(t, err).Required()
		gt.Value(t, status.State).Equal(mlbackend.TrainingStateRunning)
	})
}

func TestPing(t *testing.T) {
	t.Run("healthy backend", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/health")
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()
		gt.NoError(t, client.Ping(context.Background())).Required()
	})

	t.Run("unreachable backend", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client, err := mlbackend.New(srv.URL)
		gt.NoError(t, err).Required()
		gt.Error(t, client.Ping(context.Background()))
	})
}

func TestNew(t *testing.T) {
	t.Run("empty base URL is rejected", func(t *testing.T) {
		_, err := mlbackend.New("")
		gt.Error(t, err)
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/health")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client, err := mlbackend.New(srv.URL + "/")
		gt.NoError(t, err).Required()
		gt.NoError(t, client.Ping(context.Background())).Required()
	})
}

func TestStepResult(t *testing.T) {
	t.Run("success defaults to true", func(t *testing.T) {
		result := mlbackend.NewStepResult(map[string]any{"columns": []any{"a"}})
		gt.Value(t, result.Success()).Equal(true)
	})

	t.Run("is_valid doubles as the success flag", func(t *testing.T) {
		result := mlbackend.NewStepResult(map[string]any{"is_valid": false})
		gt.Value(t, result.Success()).Equal(false)
	})

	t.Run("typed accessors tolerate missing keys", func(t *testing.T) {
		result := mlbackend.NewStepResult(nil)
		gt.Array(t, result.Columns()).Length(0)
		gt.Array(t, result.FeatureColumns()).Length(0)
		gt.Value(t, result.BestModel()).Equal("")
		gt.Value(t, len(result.Summary())).Equal(0)
	})
}
