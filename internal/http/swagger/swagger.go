package swagger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/retail-pos/api-contract"
)

const (
	// swaggerURL is the URL path where the Swagger UI will be served
	swaggerURL = "/docs"

	// swaggerSpecURL is the URL path where the OpenAPI specification will be served
	swaggerSpecURL = "/docs/openapi.yml"

	swaggerSpecJSONURL = "/docs/openapi.json"
)

// Load parses and validates the embedded OpenAPI document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(apicontract.OpenAPI())
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return doc, nil
}

// Register registers the swagger handler on the given router.
// It fails when the embedded spec is not a valid OpenAPI document.
func Register(r chi.Router) error {
	doc, err := Load(context.Background())
	if err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	template := getTemplate(swaggerSpecURL)
	templateBytes := []byte(template)

	r.Get(swaggerURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(templateBytes)
	})

	specBytes := apicontract.OpenAPI()
	r.Get(swaggerSpecURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(specBytes)
	})

	r.Get(swaggerSpecJSONURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(jsonBytes)
	})

	return nil
}

// getTemplate returns the HTML template for Swagger UI
func getTemplate(specPath string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta name="description" content="SwaggerUI" />
  <title>SwaggerUI</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
  <link rel="icon" type="image/png" href="https://static1.smartbear.co/swagger/media/assets/swagger_fav.png" sizes="32x32" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
	  showExtensions: true,
	  showCommonExtensions: true,
    });
  };
</script>
</body>
</html>
`, specPath)
}
