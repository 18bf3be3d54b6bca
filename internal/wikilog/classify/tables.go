package classify

// spacesActions maps "/spaces/<token>" to a user action.
var spacesActions = map[string]Action{
	"dochoosetheme.action":   {"choose", "theme"},
	"doeditspace.action":     {"edit", "space"},
	"doeditspacepermissions": {"edit", "spacepermissions"},
	// Both spellings of the permissions action are accepted.
	"doeditspacepermissions.action":  {"edit", "spacepermissions"},
	"doeditstylesheet.action":        {"edit", "stylesheet"},
	"doemptytrash.action":            {"empty", "trash"},
	"doexportspace.action":           {"export", "space"},
	"doimportpages.action":           {"import", "pages"},
	"dopurgetrashitem.action":        {"purge", "trashitem"},
	"listattachmentsforspace.action": {"list", "attachments"},
	"space-bookmarks.action":         {"view", "bookmarks"},
	"viewspacesummary.action":        {"view", "spacesummary"},
	"listorphanedpages.action":       {"list", "orphanedpages"},
	"listundefinedpages.action":      {"list", "undefinedpages"},
	"listrssfeeds.action":            {"list", "rssfeeds"},
	"addspacetofavourites.action":    {"add", "space to favourites"},
}

// pagesActions maps "/pages/<token>" to a user action.
var pagesActions = map[string]Action{
	"doattachfile.action":         {"attach", "file"},
	"docreatepagetemplate.action": {"create", "pagetemplate"},
	"docopypage.action":           {"copy", "page"},
	"docreateblogpost.action":     {"create", "blogpost"},
	"docreatepage.action":         {"create", "page"},
	"doeditblogpost.action":       {"edit", "blogpost"},
	"doeditattachment.action":     {"edit", "attachment"},
	"doeditcomment.action":        {"edit", "comment"},
	"doeditpage.action":           {"edit", "page"},
	"doeditpagetemplate.action":   {"edit", "pagetemplate"},
	"doexportpage.action":         {"export", "page"},
	"doremoveblogpost.action":     {"remove", "blogpost"},
	"doremovepage.action":         {"remove", "page"},
	"doremovepagetemplate.action": {"remove", "pagetemplate"},
	"dashboard.action":            {"view", "dashboard"},
	"diffpages.action":            {"diff", "page"},
	"viewpage.action":             {"view", "page"},
	"viewpageattachments.action":  {"view", "pageattachments"},
	"viewrecentblogposts.action":  {"view", "recentblogposts"},
	"viewtrash.action":            {"view", "trash"},
	"doemptytrash.action":         {"empty", "trash"},
	"listpages.action":            {"list", "pages"},
	"listpages-dirview.action":    {"list", "pages in tree view"},
	"listpages-alphaview.action":  {"list", "pages in alpha view"},
	"dopurgetrashitem.action":     {"delete", "pages"},
	"recentlyupdated.action":      {"recentlyupdated", "pages"},
}

// labelsActions remaps "/labels/<token>". Tokens missing here are reported
// as the user action itself.
var labelsActions = map[string]Action{
	"listlabels-heatmap.action": {"list", "labels heatmap"},
	"viewlabel.action":          {"view", "label"},
}
