// file: internals/helpers/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const defaultTimeout = 20 * time.Second

// Client membungkus fiber.Agent untuk memanggil API akademik upstream.
// Token bearer milik user diteruskan apa adanya.
type Client struct {
	BaseURL string
	Timeout time.Duration
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
	}
}

// WithToken mengembalikan salinan client yang meneruskan token bearer.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = strings.TrimSpace(token)
	return &cp
}

func (c *Client) Token() string { return c.token }

/* =======================================================================
   Error upstream
======================================================================= */

// APIError: response non-2xx dari upstream (atau kegagalan transport, Status 0).
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
	Fields  map[string][]string
	Timeout bool
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream %s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("upstream %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// IsStatus true jika err adalah *APIError dengan status tsb.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

/* =======================================================================
   Request API
======================================================================= */

// File: satu part multipart berisi file.
type File struct {
	Field   string
	Name    string
	Content []byte
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.do(ctx, fiber.MethodGet, path, query, nil, out)
	return err
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, fiber.MethodPost, path, nil, jsonBody(body), out)
	return err
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, fiber.MethodPut, path, nil, jsonBody(body), out)
	return err
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, fiber.MethodPatch, path, nil, jsonBody(body), out)
	return err
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, fiber.MethodDelete, path, nil, nil, nil)
	return err
}

// Raw mengembalikan body mentah (tanpa membuka envelope) untuk passthrough.
func (c *Client) Raw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, fiber.MethodGet, path, query, nil, nil)
}

// PostMultipart mengirim form-data (field teks + file).
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []File, out any) error {
	_, err := c.do(ctx, fiber.MethodPost, path, nil, multipartBody{fields: fields, files: files}, out)
	return err
}

/* =======================================================================
   Body encoders
======================================================================= */

type requestBody interface {
	apply(a *fiber.Agent)
}

type jsonPayload struct{ v any }

func (p jsonPayload) apply(a *fiber.Agent) {
	a.JSONEncoder(sonic.Marshal).JSON(p.v)
}

func jsonBody(v any) requestBody {
	if v == nil {
		return nil
	}
	return jsonPayload{v: v}
}

type multipartBody struct {
	fields map[string]string
	files  []File
}

func (m multipartBody) apply(a *fiber.Agent) {
	args := fiber.AcquireArgs()
	for k, v := range m.fields {
		args.Set(k, v)
	}
	for _, f := range m.files {
		a.FileData(&fiber.FormFile{Fieldname: f.Field, Name: f.Name, Content: f.Content})
	}
	a.MultipartForm(args)
	fiber.ReleaseArgs(args)
}

/* =======================================================================
   Core
======================================================================= */

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body requestBody, out any) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, &APIError{Method: method, Path: path, Message: err.Error(), Timeout: errors.Is(err, context.DeadlineExceeded)}
	}
	if c.BaseURL == "" {
		return nil, &APIError{Method: method, Path: path, Message: "API_BASE_URL belum dikonfigurasi"}
	}

	timeout := c.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, &APIError{Method: method, Path: path, Message: "deadline request terlewati", Timeout: true}
	}

	uri := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	a.Timeout(timeout)
	if body != nil {
		body.apply(a)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, &APIError{Method: method, Path: path, Message: err.Error()}
	}

	start := time.Now()
	status, raw, errs := a.Bytes() // Bytes melepas agent
	if len(errs) > 0 {
		err := errs[0]
		isTimeout := errors.Is(err, fasthttp.ErrTimeout)
		log.Printf("[UPSTREAM] %s %s gagal (%s): %v", method, path, time.Since(start), err)
		return nil, &APIError{Method: method, Path: path, Message: err.Error(), Timeout: isTimeout}
	}

	if status < 200 || status >= 300 {
		ae := decodeError(raw)
		ae.Status, ae.Method, ae.Path = status, method, path
		log.Printf("[UPSTREAM] %s %s → %d %s", method, path, status, ae.Message)
		return nil, ae
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := DecodeData(raw, out); err != nil {
			return nil, &APIError{Status: status, Method: method, Path: path, Message: "response upstream tidak valid: " + err.Error()}
		}
	}
	return raw, nil
}

/* =======================================================================
   Envelope decode
======================================================================= */

var envelopeKeys = map[string]bool{
	"data": true, "message": true, "success": true, "status": true,
	"meta": true, "links": true, "pagination": true, "code": true,
}

// DecodeData membuka envelope {"data": ...} bila ada; selain itu decode body utuh.
func DecodeData(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var top map[string]json.RawMessage
		if err := sonic.Unmarshal(trimmed, &top); err == nil {
			if data, ok := top["data"]; ok && isEnvelope(top) {
				if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
					return nil
				}
				return sonic.Unmarshal(data, out)
			}
		}
	}
	return sonic.Unmarshal(trimmed, out)
}

func isEnvelope(top map[string]json.RawMessage) bool {
	for k := range top {
		if !envelopeKeys[k] {
			return false
		}
	}
	return true
}

func decodeError(raw []byte) *APIError {
	var body struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	ae := &APIError{}
	if err := sonic.Unmarshal(raw, &body); err != nil {
		ae.Message = strings.TrimSpace(string(raw))
		if len(ae.Message) > 200 {
			ae.Message = ae.Message[:200]
		}
		return ae
	}
	ae.Message = body.Message
	if ae.Message == "" {
		ae.Message = body.Error
	}
	if len(body.Errors) > 0 {
		var multi map[string][]string
		if err := sonic.Unmarshal(body.Errors, &multi); err == nil {
			ae.Fields = multi
		} else {
			var single map[string]string
			if err := sonic.Unmarshal(body.Errors, &single); err == nil {
				ae.Fields = make(map[string][]string, len(single))
				for k, v := range single {
					ae.Fields[k] = []string{v}
				}
			}
		}
	}
	return ae
}
