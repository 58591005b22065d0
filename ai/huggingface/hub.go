// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package huggingface

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/poiesic/connectors/ai"
	"github.com/poiesic/connectors/connector"
	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
	"github.com/tidwall/gjson"
)

// Account describes the owner of an access token.
type Account struct {
	Name     string
	FullName string
	Type     string
	Orgs     []string
}

// ModelInfo describes a model on the Hub.
type ModelInfo struct {
	ID          string
	Author      string
	PipelineTag string
	LibraryName string
	Tags        []string
	Downloads   int64
	Likes       int64
	Private     bool
}

// Hub is a client for the HuggingFace Hub REST API.
type Hub struct {
	client *resty.Client
	logger *slog.Logger
}

// NewHub creates a Hub client authenticated by conn.
func NewHub(conn *connector.Connector, config *ai.Config, opts ...Option) (*Hub, error) {
	if err := checkConnector(conn); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With("component", "huggingface-hub")
	client, err := transport.New(o.transport,
		transport.WithBaseURL(config.HubURL),
		transport.WithHeaders(conn.Headers()),
		transport.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Hub{client: client, logger: logger}, nil
}

// Whoami returns the account the token belongs to. A rejected token yields
// core.ErrUnexpectedStatus with status 401.
func (h *Hub) Whoami(ctx context.Context) (*Account, error) {
	body, err := h.get(ctx, "/api/whoami-v2")
	if err != nil {
		return nil, err
	}

	name := gjson.GetBytes(body, "name")
	if name.Type != gjson.String || name.Str == "" {
		return nil, fmt.Errorf("%w: name", core.ErrMissingField)
	}

	account := &Account{
		Name:     name.Str,
		FullName: gjson.GetBytes(body, "fullname").String(),
		Type:     gjson.GetBytes(body, "type").String(),
	}
	gjson.GetBytes(body, "orgs").ForEach(func(_, org gjson.Result) bool {
		if n := org.Get("name").String(); n != "" {
			account.Orgs = append(account.Orgs, n)
		}
		return true
	})
	return account, nil
}

// ModelInfo returns the Hub description of the model with the given id,
// e.g. "sentence-transformers/all-MiniLM-L6-v2".
func (h *Hub) ModelInfo(ctx context.Context, id string) (*ModelInfo, error) {
	id = strings.Trim(strings.TrimSpace(id), "/")
	if id == "" {
		return nil, fmt.Errorf("%w: model id", core.ErrEmptyMessage)
	}

	body, err := h.get(ctx, "/api/models/"+id)
	if err != nil {
		return nil, err
	}

	modelID := gjson.GetBytes(body, "id").String()
	if modelID == "" {
		modelID = gjson.GetBytes(body, "modelId").String()
	}
	if modelID == "" {
		return nil, fmt.Errorf("%w: id", core.ErrMissingField)
	}

	info := &ModelInfo{
		ID:          modelID,
		Author:      gjson.GetBytes(body, "author").String(),
		PipelineTag: gjson.GetBytes(body, "pipeline_tag").String(),
		LibraryName: gjson.GetBytes(body, "library_name").String(),
		Downloads:   gjson.GetBytes(body, "downloads").Int(),
		Likes:       gjson.GetBytes(body, "likes").Int(),
		Private:     gjson.GetBytes(body, "private").Bool(),
	}
	gjson.GetBytes(body, "tags").ForEach(func(_, tag gjson.Result) bool {
		info.Tags = append(info.Tags, tag.String())
		return true
	})
	return info, nil
}

func (h *Hub) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := h.client.R().SetContext(ctx).Get(path)
	if err := transport.CheckResponse(resp, err); err != nil {
		h.logger.Error("hub request failed", "path", path, "err", err)
		return nil, err
	}
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", core.ErrMissingField, path)
	}
	return body, nil
}
