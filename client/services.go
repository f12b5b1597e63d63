package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// RecordService exposes record operations of one collection.
type RecordService struct {
	client     *Client
	collection string
}

func (s *RecordService) basePath() string {
	return "/api/collections/" + url.PathEscape(s.collection)
}

// AuthWithPassword authenticates a record and saves the session.
func (s *RecordService) AuthWithPassword(ctx context.Context, identity, password string) (*AuthResponse, error) {
	body := map[string]any{"identity": identity, "password": password}
	return s.auth(ctx, s.basePath()+"/auth-with-password", body)
}

// AuthRefresh refreshes the current session token and saves the result.
func (s *RecordService) AuthRefresh(ctx context.Context) (*AuthResponse, error) {
	return s.auth(ctx, s.basePath()+"/auth-refresh", nil)
}

func (s *RecordService) auth(ctx context.Context, path string, body any) (*AuthResponse, error) {
	ret := &AuthResponse{}
	if err := s.client.Send(ctx, http.MethodPost, path, body, ret); err != nil {
		return nil, err
	}
	if err := s.client.authStore.Save(ret.Token, ret.Record); err != nil {
		return nil, fmt.Errorf("failed to save auth session: %w", err)
	}
	return ret, nil
}

// FileService exposes file operations.
type FileService struct {
	client *Client
}

// GetToken requests a new short lived protected file access token.
func (s *FileService) GetToken(ctx context.Context) (string, error) {
	output := struct {
		Token string `json:"token"`
	}{}
	if err := s.client.Send(ctx, http.MethodPost, "/api/files/token", nil, &output); err != nil {
		return "", err
	}
	return output.Token, nil
}

// URL builds the download URL of a record file, attaching token when not empty.
func (s *FileService) URL(record Record, filename string, token string) string {
	if filename == "" || record.ID() == "" {
		return ""
	}
	collection := record.CollectionID()
	if collection == "" {
		collection = record.CollectionName()
	}
	URL := s.client.BuildURL("/api/files/" + url.PathEscape(collection) + "/" + url.PathEscape(record.ID()) + "/" + url.PathEscape(filename))
	if token != "" {
		URL += "?" + url.Values{"token": []string{token}}.Encode()
	}
	return URL
}

// CollectionService exposes collection schema operations.
type CollectionService struct {
	client *Client
}

// List returns all collections.
func (s *CollectionService) List(ctx context.Context) ([]*Collection, error) {
	var ret []*Collection
	if err := s.client.Send(ctx, http.MethodGet, "/api/collections?perPage=500&skipTotal=1", nil, &listOutput{Items: &ret}); err != nil {
		return nil, err
	}
	return ret, nil
}

type listOutput struct {
	Items *[]*Collection `json:"items"`
}
