package manifests

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/fsutil"
	yamlgenerator "github.com/k8s-rollouts/devctl/pkg/io/generator/yaml"
)

// Manifest file names within the output directory.
const (
	RolloutFile          = "rollout.yaml"
	ServicesFile         = "services.yaml"
	AnalysisTemplateFile = "analysis-template.yaml"
	IngressFile          = "ingress.yaml"
)

const documentSeparator = "---\n"

// File is one rendered manifest file.
type File struct {
	Name    string
	Content string
}

// Renderer renders the manifest set to YAML files.
type Renderer struct {
	builder   *Builder
	rollouts  *yamlgenerator.Generator[Rollout]
	services  *yamlgenerator.Generator[Service]
	analyses  *yamlgenerator.Generator[AnalysisTemplate]
	ingresses *yamlgenerator.Generator[Ingress]
}

// NewRenderer creates a renderer for the environment configuration.
func NewRenderer(env *v1alpha1.Environment) *Renderer {
	return &Renderer{
		builder:   NewBuilder(env),
		rollouts:  yamlgenerator.NewGenerator[Rollout](),
		services:  yamlgenerator.NewGenerator[Service](),
		analyses:  yamlgenerator.NewGenerator[AnalysisTemplate](),
		ingresses: yamlgenerator.NewGenerator[Ingress](),
	}
}

// Render produces the manifest files for the configured strategy. Multi
// resource files carry their documents joined by YAML document separators.
func (r *Renderer) Render() ([]File, error) {
	rollout, err := r.rollouts.Generate(r.builder.Rollout(), yamlgenerator.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to render rollout: %w", err)
	}

	serviceDocs := make([]string, 0, 3)

	for _, service := range r.builder.Services() {
		doc, err := r.services.Generate(service, yamlgenerator.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to render service %s: %w", service.Metadata.Name, err)
		}

		serviceDocs = append(serviceDocs, doc)
	}

	analysis, err := r.analyses.Generate(r.builder.AnalysisTemplate(), yamlgenerator.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to render analysis template: %w", err)
	}

	ingressDocs := make([]string, 0, 2)

	for _, ingress := range r.builder.Ingresses() {
		doc, err := r.ingresses.Generate(ingress, yamlgenerator.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to render ingress %s: %w", ingress.Metadata.Name, err)
		}

		ingressDocs = append(ingressDocs, doc)
	}

	return []File{
		{Name: RolloutFile, Content: rollout},
		{Name: ServicesFile, Content: joinDocuments(serviceDocs)},
		{Name: AnalysisTemplateFile, Content: analysis},
		{Name: IngressFile, Content: joinDocuments(ingressDocs)},
	}, nil
}

// WriteFiles renders the set and writes each file under dir, returning the
// written paths. Existing files are left alone unless force is set.
func (r *Renderer) WriteFiles(dir string, force bool) ([]string, error) {
	files, err := r.Render()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))

	for _, file := range files {
		path := filepath.Join(dir, file.Name)

		_, err = fsutil.TryWriteFile(file.Content, path, force)
		if err != nil {
			return nil, fmt.Errorf("failed to write manifest %s: %w", file.Name, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// joinDocuments concatenates YAML documents with a separator before each.
func joinDocuments(docs []string) string {
	var builder strings.Builder

	for _, doc := range docs {
		builder.WriteString(documentSeparator)
		builder.WriteString(doc)
	}

	return builder.String()
}
