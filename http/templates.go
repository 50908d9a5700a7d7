package http

import "html/template"

var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "layout_head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Cervical Cancer Risk Screening</title>
<style>
  body { font-family: sans-serif; max-width: 680px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { font-size: 1.5rem; }
  form label { display: block; margin: 0.75rem 0 0.25rem; font-weight: 600; }
  form input, form select { width: 100%; padding: 0.4rem; box-sizing: border-box; }
  .actions { margin-top: 1.5rem; }
  button, a.button { display: inline-block; padding: 0.6rem 1.4rem; background: #2b6cb0; color: #fff;
    border: none; border-radius: 4px; text-decoration: none; cursor: pointer; }
  .hint { color: #666; font-size: 0.85rem; }
  .error { color: #b00020; }
  .result h2 { margin-bottom: 0.25rem; }
</style>
</head>
<body>
{{end}}
{{define "layout_foot"}}</body>
</html>
{{end}}

{{define "home"}}{{template "layout_head" .}}
<h1>Cervical Cancer Risk Screening</h1>
<p>This tool estimates cervical cancer risk from a short questionnaire,
using a model trained on the UCI risk factors dataset. It is a
demonstration, not medical advice.</p>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<div class="actions">
  <a class="button" href="/assessment">Start Assessment</a>
</div>
{{template "layout_foot" .}}{{end}}

{{define "assessment"}}{{template "layout_head" .}}
<h1>Assessment</h1>
<p class="hint">All fields are required. Yes/No questions use 1 for yes, 0 for no.</p>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/assessment">
  {{range .Fields}}
  <label for="{{.ID}}">{{.Label}}</label>
  {{if .Binary}}
  <select id="{{.ID}}" name="{{.ID}}">
    <option value="0">No (0)</option>
    <option value="1">Yes (1)</option>
  </select>
  {{else}}
  <input id="{{.ID}}" name="{{.ID}}" type="number" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" required>
  <span class="hint">{{.Min}} – {{.Max}}</span>
  {{end}}
  {{end}}
  <div class="actions">
    <button type="submit">Evaluate Risk</button>
  </div>
</form>
{{template "layout_foot" .}}{{end}}

{{define "results"}}{{template "layout_head" .}}
<h1>Results</h1>
<div class="result">
{{.AdviceHTML}}
</div>
<div class="actions">
  <form method="post" action="/back">
    <button type="submit">Back to Home</button>
  </form>
</div>
{{template "layout_foot" .}}{{end}}
`))
