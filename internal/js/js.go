package js

// REMOVE_OVERLAYS drops the login wall and cookie sheets twitter.com stacks
// on top of a profile for logged out visitors, so they do not end up in the
// page snapshot.
var REMOVE_OVERLAYS string = `
() => {
    var removed = 0;
    var selectors = [
        "#layers [data-testid='sheetDialog']",
        "#layers [data-testid='BottomBar']",
        "#layers [role='dialog']",
        "[data-testid='mask']"
    ];
    selectors.forEach(function (sel) {
        document.querySelectorAll(sel).forEach(function (el) {
            el.remove();
            removed++;
        });
    });
    document.documentElement.style.overflow = "auto";
    return removed;
}
`

// Invoke wraps a function snippet so it runs as a plain expression.
func Invoke(fn string) string {
	return "(" + fn + ")()"
}
