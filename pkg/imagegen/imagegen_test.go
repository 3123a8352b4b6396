package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	img := tinyPNG(t)
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1,"data":[{"b64_json":"`+base64.StdEncoding.EncodeToString(img)+`"}]}`)
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("test-key", "", option.WithBaseURL(srv.URL+"/v1/"))
	out, err := gen.Generate(context.Background(), Request{Prompt: "a robot"})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/images/generations"), gotPath)
	assert.Equal(t, "a robot", gotBody["prompt"])
	assert.Equal(t, "gpt-image-1", gotBody["model"])
	assert.Equal(t, "1024x1024", gotBody["size"])
	assert.NotContains(t, gotBody, "response_format")
	assert.Equal(t, img, out.Data)
	assert.Equal(t, "image/png", out.MIMEType)
}

func TestOpenAIGenerator_DallERequestsBase64(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1,"data":[{"b64_json":"`+base64.StdEncoding.EncodeToString(tinyPNG(t))+`"}]}`)
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("test-key", "dall-e-3", option.WithBaseURL(srv.URL+"/v1/"))
	_, err := gen.Generate(context.Background(), Request{Prompt: "a drone"})
	require.NoError(t, err)
	assert.Equal(t, "b64_json", gotBody["response_format"])
}

func TestOpenAIGenerator_EditWithReference(t *testing.T) {
	img := tinyPNG(t)
	var gotPath, gotPrompt, gotName string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotPrompt = r.FormValue("prompt")
			for _, files := range r.MultipartForm.File {
				if len(files) > 0 {
					f, _ := files[0].Open()
					gotFile, _ = io.ReadAll(f)
					f.Close()
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1,"data":[{"b64_json":"`+base64.StdEncoding.EncodeToString(img)+`"}]}`)
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("test-key", "", option.WithBaseURL(srv.URL+"/v1/"))
	_, err := gen.Generate(context.Background(), Request{Prompt: "same android, new pose", Reference: NewReference(img)})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/images/edits"), gotPath)
	assert.Equal(t, "same android, new pose", gotPrompt)
	assert.Equal(t, img, gotFile)
	assert.Equal(t, "reference.png", gotName)
}

func TestOpenAIGenerator_EditSanitizesReferenceName(t *testing.T) {
	var gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for _, files := range r.MultipartForm.File {
				if len(files) > 0 {
					gotName = files[0].Filename
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1,"data":[{"b64_json":"`+base64.StdEncoding.EncodeToString(tinyPNG(t))+`"}]}`)
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("test-key", "", option.WithBaseURL(srv.URL+"/v1/"))
	_, err := gen.Generate(context.Background(), Request{
		Prompt:    "x",
		Reference: &Reference{Data: tinyPNG(t), MIMEType: "image/svg+xml"},
	})
	require.NoError(t, err)
	assert.Equal(t, "reference.svg_xml", gotName)
}

func TestOpenAIGenerator_Errors(t *testing.T) {
	t.Run("provider error is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"prompt rejected by safety system","type":"invalid_request_error"}}`)
		}))
		defer srv.Close()

		gen := NewOpenAIGenerator("test-key", "", option.WithBaseURL(srv.URL+"/v1/"))
		_, err := gen.Generate(context.Background(), Request{Prompt: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt rejected by safety system")
	})

	t.Run("empty data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"created":1,"data":[]}`)
		}))
		defer srv.Close()

		gen := NewOpenAIGenerator("test-key", "", option.WithBaseURL(srv.URL+"/v1/"))
		_, err := gen.Generate(context.Background(), Request{Prompt: "x"})
		assert.ErrorIs(t, err, ErrNoImage)
	})
}

func TestGeminiGenerator_Generate(t *testing.T) {
	img := tinyPNG(t)
	var gotPath string
	var gotBody struct {
		Contents []struct {
			Parts []map[string]any `json:"parts"`
		} `json:"contents"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"here you go"},{"inlineData":{"mimeType":"image/png","data":"`+base64.StdEncoding.EncodeToString(img)+`"}}]}}]}`)
	}))
	defer srv.Close()

	gen, err := NewGeminiGeneratorWithConfig(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "")
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), Request{Prompt: "a cyborg", Reference: NewReference(img)})
	require.NoError(t, err)

	assert.Contains(t, gotPath, "gemini-2.5-flash-image:generateContent")
	require.Len(t, gotBody.Contents, 1)
	assert.Len(t, gotBody.Contents[0].Parts, 2)
	assert.Equal(t, img, out.Data)
	assert.Equal(t, "image/png", out.MIMEType)
}

func TestGeminiGenerator_TextOnlyIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"I can't draw that."}]}}]}`)
	}))
	defer srv.Close()

	gen, err := NewGeminiGeneratorWithConfig(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "gemini-test")
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrNoImage)
	assert.Contains(t, err.Error(), "I can't draw that.")
}

func TestNewReference(t *testing.T) {
	assert.Nil(t, NewReference(nil))
	ref := NewReference(tinyPNG(t))
	require.NotNil(t, ref)
	assert.Equal(t, "image/png", ref.MIMEType)
}
