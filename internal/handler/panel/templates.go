package panel

import "html/template"

// Template names rendered by the panel and login handlers.
const (
	PageTemplate    = "panel.html"
	ConfirmTemplate = "confirm.html"
	LoginTemplate   = "login.html"
)

// Templates parses the panel's page set.
func Templates() *template.Template {
	t := template.Must(template.New("layout").Parse(layoutHTML))
	template.Must(t.New(PageTemplate).Parse(pageHTML))
	template.Must(t.New(ConfirmTemplate).Parse(confirmHTML))
	template.Must(t.New(LoginTemplate).Parse(loginHTML))
	return t
}

const layoutHTML = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.}} | Reservations Admin</title>
<style>
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Helvetica,Arial,sans-serif;background:#f3f4f6;color:#1f2937;line-height:1.5}
.container{max-width:1100px;margin:0 auto;padding:24px}
header{display:flex;align-items:center;justify-content:space-between;margin-bottom:24px}
h1{font-size:24px}
h2{font-size:20px;margin-bottom:12px}
.card{background:#fff;border-radius:8px;box-shadow:0 1px 3px rgba(0,0,0,.1);padding:20px;margin-bottom:16px}
.toolbar{display:flex;flex-wrap:wrap;gap:12px;align-items:center}
.toolbar form{display:inline-flex;gap:8px;align-items:center}
.btn{display:inline-block;padding:8px 16px;border-radius:4px;border:0;font-weight:700;font-size:14px;color:#fff;background:#3b82f6;text-decoration:none;cursor:pointer}
.btn-green{background:#10b981}.btn-gray{background:#6b7280}.btn-yellow{background:#eab308}.btn-red{background:#ef4444}
.btn-link{background:none;color:#dc2626;padding:0;font-weight:500}
input{padding:7px 10px;border:1px solid #d1d5db;border-radius:4px;font-size:14px}
table{width:100%;border-collapse:collapse}
th{text-align:left;font-size:12px;text-transform:uppercase;color:#6b7280;background:#f9fafb;padding:12px 24px}
td{padding:16px 24px;border-bottom:1px solid #e5e7eb}
tr:hover td{background:#f9fafb}
.empty{text-align:center}
.banner{padding:12px 16px;border-radius:4px;margin-bottom:16px}
.notice{background:#d1fae5;color:#065f46}
.error{background:#fee2e2;color:#991b1b}
</style>
</head>
<body>
<div class="container">
{{end}}
{{define "banners"}}{{if .Notice}}<div class="banner notice" role="status">{{.Notice}}</div>{{end}}{{if .Error}}<div class="banner error" role="alert">{{.Error}}</div>{{end}}{{end}}
{{define "foot"}}</div>
</body>
</html>
{{end}}`

const pageHTML = `{{template "head" .Title}}
<header>
<h1>Reservations Admin</h1>
{{if .AuthEnabled}}<form method="post" action="/logout"><button id="logoutBtn" class="btn btn-red" type="submit">Logout</button></form>{{end}}
</header>
{{template "banners" .}}
<div class="card toolbar">
<a id="todayBtn" class="btn" href="/today">Today's Bookings</a>
<a id="allBtn" class="btn btn-green" href="/">All Bookings</a>
<form method="get" action="/filter">
<input id="filterDate" type="date" name="date" value="{{.Date}}">
<button id="filterBtn" class="btn btn-gray" type="submit">Filter</button>
</form>
<form method="post" action="/probe">
<input type="hidden" name="view" value="{{.View}}">
<input type="hidden" name="date" value="{{.Date}}">
<button id="testBtn" class="btn btn-yellow" type="submit">Test Database</button>
</form>
<a id="exportBtn" class="btn btn-gray" href="/export?view={{.View}}&date={{.Date}}">Export</a>
</div>
<div class="card">
<h2 id="bookingsTitle">{{.Title}}</h2>
<table>
<thead>
<tr><th>Name</th><th>Phone</th><th>Date</th><th>Time</th><th>Service</th><th>Action</th></tr>
</thead>
<tbody id="bookingsList">
{{range .Rows}}<tr>
<td>{{.Name}}</td>
<td>{{.DisplayPhone}}</td>
<td>{{.Date}}</td>
<td>{{.Time}}</td>
<td>{{.DisplayService}}</td>
<td><a class="btn-link" href="/reservations/{{.ID}}/delete?view={{$.View}}&date={{$.Date}}">Delete</a></td>
</tr>
{{else}}<tr><td colspan="6" class="empty">No bookings found</td></tr>
{{end}}</tbody>
</table>
</div>
{{template "foot"}}`

const confirmHTML = `{{template "head" "Delete booking"}}
<div class="card">
<h2>Are you sure you want to delete this booking?</h2>
<p>{{.Reservation.Name}} on {{.Reservation.Date}} at {{.Reservation.Time}} ({{.Reservation.DisplayService}})</p>
<br>
<div class="toolbar">
<form method="post" action="/reservations/{{.Reservation.ID}}/delete">
<input type="hidden" name="view" value="{{.View}}">
<button class="btn btn-red" type="submit">Delete</button>
</form>
<a class="btn btn-gray" href="{{.CancelURL}}">Cancel</a>
</div>
</div>
{{template "foot"}}`

const loginHTML = `{{template "head" "Login"}}
<div class="card" style="max-width:400px;margin:64px auto">
<h2>Admin Login</h2>
{{template "banners" .}}
<form method="post" action="/login">
<p><input type="text" name="username" placeholder="Username" value="{{.Username}}" required autofocus></p>
<br>
<p><input type="password" name="password" placeholder="Password" required></p>
<br>
<button class="btn" type="submit">Sign in</button>
</form>
</div>
{{template "foot"}}`
