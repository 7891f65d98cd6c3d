package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/validator"
)

const (
	dataField   = "data"
	imagesField = "images"
)

// bindPayload reads the job fields from a JSON body, from the JSON "data"
// field of a multipart form, or from plain form fields. An empty body leaves
// dst untouched.
func bindPayload(c *gin.Context, dst any) error {
	var err error
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		if raw := c.PostForm(dataField); raw != "" {
			err = json.Unmarshal([]byte(raw), dst)
		} else {
			err = c.ShouldBindWith(dst, binding.FormMultipart)
		}
	case binding.MIMEPOSTForm:
		err = c.ShouldBindWith(dst, binding.Form)
	default:
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			return nil
		}
		err = c.ShouldBindJSON(dst)
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
	if err != nil {
		return ecode.Validation("malformed request body", err)
	}
	return nil
}

// bindJSON decodes a JSON body and validates it.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return ecode.Validation("malformed request body", err)
	}
	if fields := validator.ValidateStruct(dst); len(fields) > 0 {
		return ecode.ValidationFields(ecode.FieldIsInvalid("request body"), fields)
	}
	return nil
}

// openImages opens the uploaded "images" files. The returned func closes them.
func openImages(c *gin.Context, limit int) ([]structs.ImageUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		return nil, noop, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, ecode.Validation("malformed multipart form", err)
	}
	headers := form.File[imagesField]
	if len(headers) == 0 {
		return nil, noop, nil
	}
	if limit > 0 && len(headers) > limit {
		return nil, noop, ecode.ValidationFields(ecode.FieldIsInvalid(imagesField), map[string]string{
			imagesField: "Too many images.",
		})
	}

	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	uploads := make([]structs.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, ecode.Validation("unreadable image "+fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, structs.ImageUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Reader:   f,
		})
	}
	return uploads, closeAll, nil
}
