package views

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/folio/content"
)

func csrfField(h *writer, token string) {
	h.open("input", "type", "hidden", "name", "_csrf", "value", token)
}

// AdminLogin renders the password form.
func AdminLogin(site Site, showError bool, csrfToken string) templ.Component {
	return Layout(site, PageMeta{Title: "Admin"}, component(func(h *writer) {
		h.open("main", "class", "admin")
		h.open("form", "method", "post", "action", "/admin/login/", "class", "admin__login")
		csrfField(h, csrfToken)
		if showError {
			h.el("p", "Wrong password.", "class", "admin__error")
		}
		h.open("input", "type", "password", "name", "password", "placeholder", "Password", "autofocus", "true")
		h.el("button", "Log in", "type", "submit")
		h.close("form")
		h.close("main")
	}))
}

// AdminDashboard lists posts (drafts included) and the bio form.
func AdminDashboard(page AdminPage) templ.Component {
	return Layout(page.Site, PageMeta{Title: "Admin"}, component(func(h *writer) {
		h.open("main", "class", "admin")
		if page.Message != "" {
			h.el("p", page.Message, "class", "admin__message")
		}
		h.open("nav", "class", "admin__nav")
		h.el("a", "New post", "href", "/admin/post/new/")
		h.el("a", "Images", "href", "/admin/images/")
		h.open("form", "method", "post", "action", "/admin/logout/")
		csrfField(h, page.CSRFToken)
		h.el("button", "Log out", "type", "submit")
		h.close("form")
		h.close("nav")

		h.open("table", "class", "admin__posts")
		h.raw("<thead><tr><th>Title</th><th>Date</th><th>Tags</th><th>Status</th><th></th></tr></thead>")
		h.open("tbody")
		for _, p := range page.Posts {
			status := "published"
			if !p.Published {
				status = "draft"
			}
			h.open("tr")
			h.open("td")
			h.el("a", p.Title, "href", "/admin/post/"+p.Slug+"/")
			h.close("td")
			h.el("td", p.Date)
			h.el("td", JoinTags(p.Tags))
			h.el("td", status)
			h.open("td")
			h.open("form", "method", "post", "action", "/admin/post/"+p.Slug+"/delete/")
			csrfField(h, page.CSRFToken)
			h.el("button", "Delete", "type", "submit")
			h.close("form")
			h.close("td")
			h.close("tr")
		}
		h.close("tbody")
		h.close("table")

		bioForm(h, page.Bio, page.CSRFToken)
		h.close("main")
	}))
}

// AdminPostForm renders the post editor.
func AdminPostForm(site Site, p content.Post, csrfToken string) templ.Component {
	return Layout(site, PageMeta{Title: "Edit post"}, component(func(h *writer) {
		h.open("main", "class", "admin")
		h.open("form", "method", "post", "action", "/admin/save/", "class", "admin__form")
		csrfField(h, csrfToken)
		if p.ID != "" {
			h.open("input", "type", "hidden", "name", "id", "value", p.ID)
		}
		input(h, "Title", "title", p.Title)
		input(h, "Slug", "slug", p.Slug)
		input(h, "Subtitle", "subtitle", p.Subtitle)
		input(h, "Date (YYYY-MM-DD)", "date", p.Date)
		input(h, "Tags (comma separated)", "tags", JoinTags(p.Tags))
		mainAsset := ""
		if p.MainImage != nil {
			mainAsset = p.MainImage.Asset
		}
		input(h, "Main image asset", "main_image", mainAsset)
		var gallery []string
		for _, g := range p.Gallery {
			gallery = append(gallery, g.Asset)
		}
		textarea(h, "Gallery assets (one per line)", "gallery", strings.Join(gallery, "\n"))
		var vids []string
		for _, v := range p.Videos {
			line := v.URL
			if v.Title != "" {
				line += " | " + v.Title
			}
			vids = append(vids, line)
		}
		textarea(h, "Videos (url | title, one per line)", "videos", strings.Join(vids, "\n"))
		input(h, "Homepage video loop", "video_loop", p.VideoLoop)
		textarea(h, "Body (Markdown)", "body", p.Body)
		h.open("label")
		checked := ""
		if p.Published || p.Slug == "" {
			checked = "checked"
		}
		h.open("input", "type", "checkbox", "name", "published", "value", "1", "checked", checked)
		h.text(" Published")
		h.close("label")
		h.el("button", "Save", "type", "submit")
		h.close("form")
		h.close("main")
	}))
}

func bioForm(h *writer, b *content.Bio, csrfToken string) {
	var bio content.Bio
	if b != nil {
		bio = *b
	}
	h.el("h2", "Bio")
	h.open("form", "method", "post", "action", "/admin/bio/", "class", "admin__form")
	csrfField(h, csrfToken)
	textarea(h, "Bio text (Markdown)", "text", bio.Text)
	photo := ""
	if bio.Photo != nil {
		photo = bio.Photo.Asset
	}
	input(h, "Photo asset", "photo", photo)
	input(h, "Email", "email", bio.Email)
	input(h, "Phone", "phone", bio.Phone)
	var socials []string
	for _, s := range bio.Socials {
		socials = append(socials, strings.Join([]string{s.Platform, s.URL, s.Handle}, " | "))
	}
	textarea(h, "Socials (platform | url | handle)", "socials", strings.Join(socials, "\n"))
	var clients []string
	for _, c := range bio.Clients {
		clients = append(clients, strings.Join([]string{c.Name, c.URL}, " | "))
	}
	textarea(h, "Clients (name | url)", "clients", strings.Join(clients, "\n"))
	h.el("button", "Save bio", "type", "submit")
	h.close("form")
}

// AdminImages lists uploaded assets with an upload form.
func AdminImages(site Site, images []ImageRow, csrfToken string) templ.Component {
	return Layout(site, PageMeta{Title: "Images"}, component(func(h *writer) {
		h.open("main", "class", "admin")
		h.open("form", "method", "post", "action", "/admin/images/upload/", "enctype", "multipart/form-data")
		csrfField(h, csrfToken)
		h.open("input", "type", "file", "name", "image", "accept", "image/*")
		h.el("button", "Upload", "type", "submit")
		h.close("form")

		h.open("ul", "class", "admin__images")
		for _, row := range images {
			img := row.Image
			h.open("li")
			h.open("img", "src", row.URL, "alt", img.OriginalName, "width", "150", "loading", "lazy")
			h.el("code", img.Asset)
			h.el("span", humanize.Bytes(uint64(img.Size))+" · "+humanize.Comma(int64(img.Width))+"×"+humanize.Comma(int64(img.Height)))
			h.open("form", "method", "post", "action", "/admin/images/"+img.Asset+"/delete/")
			csrfField(h, csrfToken)
			h.el("button", "Delete", "type", "submit")
			h.close("form")
			h.close("li")
		}
		h.close("ul")
		h.close("main")
	}))
}

func input(h *writer, label, name, value string) {
	h.open("label")
	h.text(label)
	h.open("input", "type", "text", "name", name, "value", value)
	h.close("label")
}

func textarea(h *writer, label, name, value string) {
	h.open("label")
	h.text(label)
	h.open("textarea", "name", name, "rows", "6")
	h.text(value)
	h.close("textarea")
	h.close("label")
}
