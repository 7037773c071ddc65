package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Zachkp/portfolio/internal/content"
)

// LoginFallback is shown when the login endpoint fails without a message.
const LoginFallback = "Grid Connection Failed!"

type loginResponse struct {
	Success  bool   `json:"success"`
	AdminKey string `json:"adminKey"`
	Message  string `json:"message"`
}

// Login exchanges the admin password for the admin key. A rejected password is a
// *RequestError carrying the API's message, not ErrAuthorizationDenied.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	const path = "/auth/login"
	status, raw, err := c.do(ctx, http.MethodPost, path, map[string]string{"password": password}, false)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &RequestError{Method: http.MethodPost, Path: path, Status: status, Message: bodyMessage(raw)}
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &RequestError{Method: http.MethodPost, Path: path, Status: status, Err: fmt.Errorf("decoding login response: %w", err)}
	}
	key := strings.TrimSpace(resp.AdminKey)
	if !resp.Success || key == "" {
		return "", &RequestError{Method: http.MethodPost, Path: path, Status: status, Message: resp.Message}
	}
	return key, nil
}

// List fetches one collection in server order.
func (c *Client) List(ctx context.Context, kind content.Kind, needsAuth bool) ([]content.Item, error) {
	raw, err := c.Request(ctx, http.MethodGet, kind.Path(), nil, needsAuth || kind.Protected())
	if err != nil {
		return nil, err
	}
	return decodeItems(kind, raw), nil
}

// ListMessages fetches the contact messages; always authenticated.
func (c *Client) ListMessages(ctx context.Context) ([]content.Message, error) {
	raw, err := c.Request(ctx, http.MethodGet, content.Messages.Path(), nil, true)
	if err != nil {
		return nil, err
	}
	return DecodeList[content.Message](raw, content.Messages.Envelope()), nil
}

// SendContact relays a contact-form submission. It needs no session.
func (c *Client) SendContact(ctx context.Context, sub content.ContactSubmission) error {
	_, err := c.Request(ctx, http.MethodPost, "/contact", sub, false)
	return err
}

// Warm refetches the public collections into the cache.
func (c *Client) Warm(ctx context.Context, kinds ...content.Kind) {
	if c.cache == nil {
		return
	}
	for _, k := range kinds {
		if k.Protected() {
			continue
		}
		status, raw, err := c.do(ctx, http.MethodGet, k.Path(), nil, false)
		if err == nil {
			err = check(http.MethodGet, k.Path(), status, raw)
		}
		if err != nil {
			slog.Warn("cache warm failed", "kind", k, "error", err)
			continue
		}
		if err := c.cache.Set(ctx, k.Path(), raw, c.cacheTTL); err != nil {
			slog.Warn("cache warm write failed", "kind", k, "error", err)
		}
	}
}

// Admin is the authenticated view of the client used by the admin console.
// Every call carries the session token.
type Admin struct {
	c *Client
}

func (c *Client) Admin() Admin {
	return Admin{c: c}
}

func (a Admin) List(ctx context.Context, kind content.Kind) ([]content.Item, error) {
	return a.c.List(ctx, kind, true)
}

func (a Admin) ListMessages(ctx context.Context) ([]content.Message, error) {
	return a.c.ListMessages(ctx)
}

// Create posts a new item. With an image the payload goes out as multipart form data.
func (a Admin) Create(ctx context.Context, kind content.Kind, payload content.Item, image *content.Upload) error {
	return a.save(ctx, http.MethodPost, kind.Path(), payload, image)
}

func (a Admin) Update(ctx context.Context, kind content.Kind, id string, payload content.Item, image *content.Upload) error {
	return a.save(ctx, http.MethodPut, kind.ItemPath(id), payload, image)
}

func (a Admin) save(ctx context.Context, method, path string, payload content.Item, image *content.Upload) error {
	var body any = payload
	if image != nil {
		form, err := multipartBody(payload, image)
		if err != nil {
			return fmt.Errorf("encoding %s %s form: %w", method, path, err)
		}
		body = form
	}
	_, err := a.c.Request(ctx, method, path, body, true)
	return err
}

func (a Admin) Delete(ctx context.Context, kind content.Kind, id string) error {
	_, err := a.c.Request(ctx, http.MethodDelete, kind.ItemPath(id), nil, true)
	return err
}

func (a Admin) Reply(ctx context.Context, r content.Reply) error {
	_, err := a.c.Request(ctx, http.MethodPost, "/messages/reply", r, true)
	return err
}

func decodeItems(kind content.Kind, raw []byte) []content.Item {
	field := kind.Envelope()
	switch kind {
	case content.Projects:
		return items(DecodeList[content.Project](raw, field))
	case content.Experience:
		return items(DecodeList[content.ExperienceEntry](raw, field))
	case content.Education:
		return items(DecodeList[content.EducationEntry](raw, field))
	case content.Reviews:
		return items(DecodeList[content.Review](raw, field))
	case content.Messages:
		return items(DecodeList[content.Message](raw, field))
	}
	return []content.Item{}
}

func items[T content.Item](xs []T) []content.Item {
	out := make([]content.Item, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
