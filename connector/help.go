package connector

import "github.com/poiesic/connectors/core"

const openAIHelp = `OpenAI connector

Attributes
  settings_path     credentials file, e.g. settings/credentials.json
  api_key           secret key created on the OpenAI platform
  organization_id   organization id; required unless the connector is built
                    with WithOrganization(false)
  available_models  models enabled for this project (connector.openai.model)

Credentials
  1. Sign in at https://platform.openai.com.
  2. Under 'API keys', create a key and paste it into
     {"connector": {"openai": {"api_key": "..."}}}.
  3. Under 'Settings', copy the organization id into
     {"connector": {"openai": {"organization_id": "..."}}}.
  4. Optionally set a monthly budget under 'Settings' > 'Limits'.

Usage
  c, err := connector.NewOpenAI("settings/credentials.json")

  Use a Registry to share one connector per provider:
    registry := connector.NewRegistry()
    a, _ := registry.OpenAI(path)
    b, _ := registry.OpenAI(other)   // same instance as a

Relative paths that do not exist are also looked up next to the executable.
Declared attributes cannot be changed after construction; Set stores extra
metadata under any other name.`

const huggingFaceHelp = `HuggingFace connector

Attributes
  settings_path     credentials file, e.g. settings/credentials.json
  api_key           access token created on huggingface.co
  available_models  optional list of models enabled for this project

Credentials
  1. Sign in at https://huggingface.co.
  2. Under 'Settings' > 'Access Tokens', create a token and paste it into
     {"connector": {"huggingface": {"api_key": "..."}}}.

Usage
  c, err := connector.NewHuggingFace("settings/credentials.json")

  Use a Registry to share one connector per provider:
    registry := connector.NewRegistry()
    a, _ := registry.HuggingFace(path)

Relative paths that do not exist are also looked up next to the executable.
Declared attributes cannot be changed after construction; Set stores extra
metadata under any other name.`

const openAIServiceHelp = `OpenAI embedding service connector

Attributes
  settings_path  credentials file with {"api_key": "...", "organization": "..."}
  api_key        secret key created on the OpenAI platform
  organization   organization id, sent as OpenAI-Organization

Usage
  c, err := connector.NewOpenAIService("settings/embedding.json")
  e, err := openai.NewRESTEmbedder(c, ai.DefaultConfig())
  vec, err := e.Embedding(ctx, "text")`

const renderFormHelp = `RenderForm connector

Attributes
  settings_path  credentials file with {"x-api-key": "..."}
  api_key        key created on https://renderform.io under 'API Keys'

Usage
  c, err := connector.NewRenderForm("settings/renderform.json")
  client, err := render.NewClient(c, render.DefaultConfig())
  href, err := client.Render(ctx, render.Request{TemplateID: "..."})`

// Help returns usage notes for the connector's provider.
func (c *Connector) Help() string {
	switch c.provider {
	case core.ProviderOpenAI:
		return openAIHelp
	case core.ProviderHuggingFace:
		return huggingFaceHelp
	case core.ProviderOpenAIService:
		return openAIServiceHelp
	case core.ProviderRenderForm:
		return renderFormHelp
	default:
		return ""
	}
}

// HelpFor returns usage notes for provider without building a connector.
func HelpFor(provider core.Provider) string {
	c := Connector{provider: provider}
	return c.Help()
}
