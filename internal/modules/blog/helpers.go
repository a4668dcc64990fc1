package blog

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// makeSlug derives the immutable blog id: dashed lowercase title plus a
// 10-character random suffix.
func makeSlug(title string) string {
	base := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "blog"
	}
	return base + "-" + randomSuffix(10)
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func readUpload(fh *multipart.FileHeader) (*Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &Upload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}

type parsedForm struct {
	Title          string
	Description    string
	ContentRaw     string
	TagsRaw        string
	Draft          bool
	ExistingRaw    string
	Cover          *Upload
	Images         []Upload
}

func parseBlogForm(c *gin.Context) (*parsedForm, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	out := &parsedForm{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description", "des"),
		ContentRaw:  formValue(form, "content"),
		TagsRaw:     formValue(form, "tags"),
		ExistingRaw: formValue(form, "existingImages"),
	}
	out.Draft, _ = strconv.ParseBool(formValue(form, "draft"))

	if covers := form.File["image"]; len(covers) > 0 {
		cover, err := readUpload(covers[0])
		if err != nil {
			return nil, err
		}
		out.Cover = cover
	}
	for _, fh := range form.File["images"] {
		up, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out.Images = append(out.Images, *up)
	}
	return out, nil
}

func formValue(form *multipart.Form, keys ...string) string {
	for _, key := range keys {
		if vals := form.Value[key]; len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

func decodeJSONField[T any](raw string, dest *T) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dest)
}
