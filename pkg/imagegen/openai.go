package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"folio/pkg/utils"
)

// OpenAIGenerator implements Generator using OpenAI's image endpoints.
type OpenAIGenerator struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIGenerator creates a new generator instance using the OpenAI client.
func NewOpenAIGenerator(apiKey string, model string, opts ...option.RequestOption) *OpenAIGenerator {
	if model == "" {
		model = string(openai.ImageModelGPTImage1)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIGenerator{
		client: &client,
		apiKey: apiKey,
		model:  model,
	}
}

func (o *OpenAIGenerator) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	o.client = &client
}

// Generate calls images/generations, or images/edits when a reference
// image is attached.
func (o *OpenAIGenerator) Generate(ctx context.Context, req Request) (Image, error) {
	var (
		resp *openai.ImagesResponse
		err  error
	)
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		resp, err = o.edit(ctx, req)
	} else {
		params := openai.ImageGenerateParams{
			Prompt: req.Prompt,
			Model:  openai.ImageModel(o.model),
			Size:   openai.ImageGenerateParamsSize1024x1024,
			N:      openai.Int(1),
		}
		// gpt-image models always answer in base64 and reject response_format
		if strings.HasPrefix(o.model, "dall-e") {
			params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
		}
		resp, err = o.client.Images.Generate(ctx, params)
	}
	if err != nil {
		return Image{}, fmt.Errorf("openai image error: %w", err)
	}
	return decodeImagesResponse(resp)
}

func (o *OpenAIGenerator) edit(ctx context.Context, req Request) (*openai.ImagesResponse, error) {
	mime := req.Reference.MIMEType
	if mime == "" {
		mime = http.DetectContentType(req.Reference.Data)
	}
	ext := "png"
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		ext = mime[i+1:]
	}
	ref := openai.File(bytes.NewReader(req.Reference.Data), utils.SanitizeFilename("reference."+ext), mime)

	return o.client.Images.Edit(ctx, openai.ImageEditParams{
		Image:  openai.ImageEditParamsImageUnion{OfFileArray: []io.Reader{ref}},
		Prompt: req.Prompt,
		Model:  openai.ImageModel(o.model),
		Size:   openai.ImageEditParamsSize1024x1024,
		N:      openai.Int(1),
	})
}

func decodeImagesResponse(resp *openai.ImagesResponse) (Image, error) {
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return Image{}, ErrNoImage
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	return Image{Data: data, MIMEType: http.DetectContentType(data)}, nil
}
