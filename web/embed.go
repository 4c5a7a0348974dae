// Package web holds the browser assets compiled into the server binary.
package web

import "embed"

// TemplatesFS holds the page and partial templates (index, records table, notice).
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the chart script, served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
