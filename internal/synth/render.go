package synth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
)

// Renderer serializes a BuildSpec into a config one bundler engine understands.
type Renderer interface {
	Name() string
	// Pattern is the os.CreateTemp pattern for the temp config file.
	Pattern(network string) string
	Render(s *Synthesizer, spec *BuildSpec) ([]byte, error)
}

// RendererFor returns the renderer for an engine name.
func RendererFor(engine string) (Renderer, error) {
	switch engine {
	case "webpack", "":
		return WebpackRenderer{}, nil
	case "esbuild":
		return EsbuildRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown bundler engine %q", engine)
	}
}

// WebpackRenderer renders a webpack.config.js module.
type WebpackRenderer struct{}

func (WebpackRenderer) Name() string { return "webpack" }

func (WebpackRenderer) Pattern(network string) string {
	return "webpack." + network + ".*.config.js"
}

var webpackTemplate = template.Must(template.New("webpack").Funcs(template.FuncMap{
	"quote": jsString,
}).Parse(`const path = require('path');
const webpack = require('webpack');
const CustomHtmlWebpackPlugin = require({{quote .HTMLPlugin}});

module.exports = {
    mode: 'production',
    entry: {{quote .Entry}},
    output: {
        filename: {{quote .Filename}},
        path: {{quote .OutputDir}},
        clean: true
    },
    module: {
        rules: [
            {
                test: /\.js$/,
                exclude: /node_modules/,
                use: {
                    loader: 'babel-loader',
                    options: {
                        presets: ['@babel/preset-env'],
                    }
                }
            },
            {
                test: /\.({{.InlineExtensions}})$/i,
                type: 'asset/inline'
            },
        ]
    },
    plugins: [
        new webpack.DefinePlugin({
            'process.env.NODE_ENV': JSON.stringify('production'),
            'process.env.AD_NETWORK': JSON.stringify({{quote .Network}})
        }),
        new CustomHtmlWebpackPlugin({
            template: {{quote .TemplatePath}},
            filename: {{quote .HTMLFilename}}
        }),
    ]
};
`))

type webpackData struct {
	HTMLPlugin       string
	Entry            string
	Filename         string
	OutputDir        string
	InlineExtensions string
	Network          string
	TemplatePath     string
	HTMLFilename     string
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (WebpackRenderer) Render(s *Synthesizer, spec *BuildSpec) ([]byte, error) {
	var buf bytes.Buffer
	err := webpackTemplate.Execute(&buf, webpackData{
		HTMLPlugin:       s.HTMLPlugin,
		Entry:            s.Entry,
		Filename:         spec.EntryScriptFilename,
		OutputDir:        spec.OutputDir,
		InlineExtensions: inlineExtensions,
		Network:          spec.Network,
		TemplatePath:     spec.TemplatePath,
		HTMLFilename:     TemplateFilename,
	})
	if err != nil {
		return nil, fmt.Errorf("render webpack config: %w", err)
	}
	return buf.Bytes(), nil
}

// EsbuildConfig is the record the esbuild engine reads back from the temp file.
type EsbuildConfig struct {
	Network       string            `json:"network"`
	AbsWorkingDir string            `json:"absWorkingDir"`
	EntryPoint    string            `json:"entryPoint"`
	Outfile       string            `json:"outfile"`
	OutputDir     string            `json:"outputDir"`
	Loaders       map[string]string `json:"loaders"`
	Define        map[string]string `json:"define"`
	Minify        bool              `json:"minify"`
	Template      string            `json:"template"`
	HTMLFilename  string            `json:"htmlFilename"`
	ScriptName    string            `json:"scriptName"`
}

// EsbuildRenderer renders an EsbuildConfig as JSON.
type EsbuildRenderer struct{}

func (EsbuildRenderer) Name() string { return "esbuild" }

func (EsbuildRenderer) Pattern(network string) string {
	return "esbuild." + network + ".*.json"
}

func (EsbuildRenderer) Render(s *Synthesizer, spec *BuildSpec) ([]byte, error) {
	loaders := make(map[string]string, len(AssetExtensions))
	for _, ext := range AssetExtensions {
		loaders[ext] = "dataurl"
	}

	cfg := EsbuildConfig{
		Network:       spec.Network,
		AbsWorkingDir: s.ProjectRoot,
		EntryPoint:    s.Entry,
		Outfile:       spec.ScriptPath(),
		OutputDir:     spec.OutputDir,
		Loaders:       loaders,
		Define: map[string]string{
			"process.env.NODE_ENV":   `"production"`,
			"process.env.AD_NETWORK": fmt.Sprintf("%q", spec.Network),
		},
		Minify:       s.Minify,
		Template:     spec.TemplatePath,
		HTMLFilename: TemplateFilename,
		ScriptName:   spec.EntryScriptFilename,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render esbuild config: %w", err)
	}
	return append(data, '\n'), nil
}
