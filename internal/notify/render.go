package notify

import (
	"html/template"
	"strconv"
	"strings"

	dom "github.com/Okano804/ChatTODO/internal/domain"
)

// Mail bodies follow the original in-house notification style: a colored
// header, a card (or table, for digests) and a short call to action.

var singleTmpl = template.Must(template.New("single").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: 'Segoe UI', Tahoma, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #dc2626 0%, #991b1b 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
    .content { background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
    .todo-card { background: white; padding: 20px; border-radius: 8px; border-left: 4px solid #dc2626; margin: 20px 0; }
    .todo-title { font-size: 20px; font-weight: bold; margin-bottom: 10px; }
    .todo-info { color: #6b7280; margin: 5px 0; }
    .urgent { color: #dc2626; font-weight: 600; }
    .footer { text-align: center; margin-top: 30px; color: #6b7280; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header"><h1>{{.Heading}}</h1></div>
  <div class="content">
    <p>{{.Intro}}</p>
    <div class="todo-card">
      <div class="todo-title">{{.Task}}</div>
      <div class="todo-info">担当者: {{.Creator}}</div>
      <div class="todo-info urgent">期限: {{.Deadline}}</div>
    </div>
    <p>早めに対応してください。</p>
    <div class="footer"><p>このメールは自動送信されています</p></div>
  </div>
</body>
</html>`))

var digestTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: 'Segoe UI', Tahoma, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
    .content { background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
    .todo-table { width: 100%; border-collapse: collapse; margin: 20px 0; background: white; }
    .todo-table th { background: #f3f4f6; padding: 15px; text-align: left; border-bottom: 2px solid #e5e7eb; }
    .todo-table td { padding: 15px; border-bottom: 1px solid #e5e7eb; }
    .overdue { color: #dc2626; font-weight: 600; }
    .summary { background: white; padding: 20px; border-radius: 8px; margin-top: 20px; border-left: 4px solid #dc2626; }
    .footer { text-align: center; margin-top: 30px; color: #6b7280; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header"><h1>⚠️ 期限超過TODO通知</h1></div>
  <div class="content">
    <p>以下のTODOが期限を超過しています：</p>
    <table class="todo-table">
      <thead><tr><th>タスク</th><th>担当者</th><th>期限</th></tr></thead>
      <tbody>
        {{range .Rows}}<tr><td><strong>{{.Task}}</strong></td><td>{{.Creator}}</td><td class="overdue">{{.Deadline}}</td></tr>
        {{end}}
      </tbody>
    </table>
    <div class="summary"><p style="margin: 0;"><strong>合計：{{.Count}} 件の期限超過TODOがあります</strong></p></div>
    <div class="footer"><p>このメールは自動送信されています</p></div>
  </div>
</body>
</html>`))

type mailRow struct {
	Task     string
	Creator  string
	Deadline string
}

func (d *Dispatcher) renderSingle(t dom.Todo, th dom.Threshold) (subject, html string, err error) {
	heading := "⏰ 期限接近TODO通知"
	intro := "以下のTODOの期限が近づいています（" + th.Label + "）："
	subject = "⏰ " + th.Label + ": " + t.TaskContent
	if th.Name == dom.ThresholdOverdue.Name {
		heading = "🚨 期限超過TODO通知"
		intro = "以下のTODOが期限を超過しました："
		subject = "🚨 期限超過: " + t.TaskContent
	}

	var b strings.Builder
	err = singleTmpl.Execute(&b, struct {
		Heading, Intro, Task, Creator, Deadline string
	}{heading, intro, t.TaskContent, t.CreatorName, d.zone.FormatHuman(t.Deadline)})
	return subject, b.String(), err
}

func (d *Dispatcher) renderDigest(todos []dom.Todo) (subject, html string, err error) {
	rows := make([]mailRow, len(todos))
	for i, t := range todos {
		rows[i] = mailRow{Task: t.TaskContent, Creator: t.CreatorName, Deadline: d.zone.FormatHuman(t.Deadline)}
	}
	var b strings.Builder
	err = digestTmpl.Execute(&b, struct {
		Rows  []mailRow
		Count int
	}{rows, len(rows)})
	subject = "⚠️ 期限超過TODO通知 (" + strconv.Itoa(len(rows)) + "件)"
	return subject, b.String(), err
}
