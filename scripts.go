package main

import "fmt"

// Every injected script below follows the same contract: it evaluates to a
// JSON value of the shape {"success": bool, "value": any} or
// {"success": false, "error": string}, so Go-side extraction (extractEnvelope)
// is uniform no matter which CDP call produced the JSON.

func wrapEnvelope(body string) string {
	return fmt.Sprintf("(function() { try { %s } catch (e) { return {success: false, error: String(e && e.message || e)}; } })()", body)
}

// withFrameContext redirects an injected script's "window"/"document" globals
// into the session's current browsing context before running it, so every
// window.<jsVar> handle lookup and document.querySelector call resolves
// against the frame the client last switched into rather than the top level.
func withFrameContext(frameExpr, script string) string {
	if frameExpr == "" {
		return script
	}
	return fmt.Sprintf(`(function() {
		var window = (%s);
		var document = window.document;
		return (%s);
	})()`, frameExpr, script)
}

// frameContextPrelude returns the statement that redirects window/document
// for a raw user script run through execute/sync or execute/async, where the
// caller (not this package) already owns the wrapping IIFE and just needs a
// line prepended before the user's own code.
func frameContextPrelude(frameExpr string) string {
	if frameExpr == "" {
		return ""
	}
	return fmt.Sprintf("var window = (%s); var document = window.document;\n", frameExpr)
}

// scriptIsDisplayed implements the WebDriver visibility algorithm: walk
// ancestors for display:none/visibility:hidden/zero-size boxes, treat
// aria-hidden and closed <details>/backgrounded <option> as hidden.
// Opacity 0 is still "visible" per the W3C algorithm.
func scriptIsDisplayed(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		function isDisplayed(node) {
			if (!node || node.nodeType !== 1) return false;
			var style = window.getComputedStyle(node);
			if (style.display === 'none' || style.visibility === 'hidden' || style.visibility === 'collapse') return false;
			if (node.hasAttribute('hidden')) return false;
			if (node.getAttribute('aria-hidden') === 'true') return false;
			var rect = node.getBoundingClientRect();
			if (rect.width === 0 && rect.height === 0 && !node.getClientRects().length) return false;
			if (node.tagName === 'OPTION') {
				var select = node.closest('select');
				if (select && !isDisplayed(select)) return false;
			}
			var details = node.closest('details');
			if (details && !details.open && node !== details.querySelector('summary')) return false;
			var parent = node.parentElement;
			if (parent) return isDisplayed(parent);
			return true;
		}
		return {success: true, value: isDisplayed(el)};
	`, jsVar))
}

// scriptIsEnabled reports the standard "disabled attribute or fieldset
// ancestor" enabled algorithm.
func scriptIsEnabled(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var disabled = 'disabled' in el && el.disabled;
		return {success: true, value: !disabled};
	`, jsVar))
}

// scriptIsSelected reports checked/selected state for form controls.
func scriptIsSelected(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var value;
		if (el.tagName === 'OPTION') value = el.selected;
		else if ('checked' in el) value = el.checked;
		else value = false;
		return {success: true, value: value};
	`, jsVar))
}

// scriptGetText returns the WebDriver-visible rendered text of an element.
func scriptGetText(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		return {success: true, value: (el.innerText !== undefined ? el.innerText : el.textContent) || ''};
	`, jsVar))
}

func scriptGetTagName(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		return {success: true, value: el.tagName.toLowerCase()};
	`, jsVar))
}

// scriptGetAttribute returns the DOM attribute (or null), distinct from a
// live JS property.
func scriptGetAttribute(jsVar, name string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var v = el.getAttribute('%s');
		return {success: true, value: v === null ? null : v};
	`, jsVar, escapeJSString(name)))
}

// scriptGetProperty returns the live JS property, which may be non-string.
func scriptGetProperty(jsVar, name string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var v = el['%s'];
		return {success: true, value: v === undefined ? null : v};
	`, jsVar, escapeJSString(name)))
}

func scriptGetCSSValue(jsVar, prop string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var v = window.getComputedStyle(el).getPropertyValue('%s');
		return {success: true, value: v || ''};
	`, jsVar, escapeJSString(prop)))
}

// scriptGetRect returns the element's border-box rect in CSS pixels,
// adjusted for scroll offset like getBoundingClientRect + window scroll.
func scriptGetRect(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var r = el.getBoundingClientRect();
		return {success: true, value: {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height}};
	`, jsVar))
}

// scriptClickPoint locates the visible in-view center point of an element,
// scrolling into view first if needed, and verifies the element at that
// point is the target or a descendant before reporting the click point.
func scriptClickPoint(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		el.scrollIntoView({block: 'center', inline: 'center'});
		var r = el.getBoundingClientRect();
		var x = r.left + r.width / 2;
		var y = r.top + r.height / 2;
		var hit = document.elementFromPoint(x, y);
		if (!hit || (hit !== el && !el.contains(hit))) {
			return {success: false, error: 'element click intercepted: ' + (hit ? hit.tagName : 'nothing') + ' would receive the click'};
		}
		return {success: true, value: {x: x, y: y}};
	`, jsVar))
}

// scriptClearElement clears a text input / textarea by emptying its value
// and dispatching input/change; a contenteditable element has its text
// content emptied.
func scriptClearElement(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		if ('value' in el) {
			el.focus();
			el.value = '';
			el.dispatchEvent(new Event('input', {bubbles: true}));
			el.dispatchEvent(new Event('change', {bubbles: true}));
		} else if (el.isContentEditable) {
			el.textContent = '';
		}
		return {success: true, value: null};
	`, jsVar))
}

// scriptSetFocus focuses the element, used before send-keys.
func scriptSetFocus(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		el.focus();
		return {success: true, value: null};
	`, jsVar))
}

// scriptGetActiveElement stores document.activeElement (or the active
// element within the deepest open shadow root) at jsVar.
func scriptGetActiveElement(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = document.activeElement;
		while (el && el.shadowRoot && el.shadowRoot.activeElement) {
			el = el.shadowRoot.activeElement;
		}
		if (!el || el === document.body) return {success: true, value: null};
		window.%s = el;
		return {success: true, value: true};
	`, jsVar))
}

// scriptGetShadowRoot stores the element's open shadow root at jsVar, or
// reports null if none. A present-but-closed root is unreachable from
// script and surfaces as no such shadow root at the handler layer.
func scriptGetShadowRoot(jsVar, shadowJSVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var root = el.shadowRoot;
		if (!root) return {success: true, value: null};
		window.%s = root;
		return {success: true, value: true};
	`, jsVar, shadowJSVar))
}

// scriptComputedRole implements a pragmatic ARIA computed-role algorithm:
// explicit role attribute wins, else a small implicit-role-by-tag table.
func scriptComputedRole(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var explicit = el.getAttribute('role');
		if (explicit) return {success: true, value: explicit};
		var implicit = {
			A: el.hasAttribute('href') ? 'link' : 'generic',
			BUTTON: 'button', INPUT: (el.type === 'checkbox' ? 'checkbox' : el.type === 'radio' ? 'radio' : el.type === 'submit' ? 'button' : 'textbox'),
			IMG: 'img', NAV: 'navigation', MAIN: 'main', HEADER: 'banner', FOOTER: 'contentinfo',
			UL: 'list', OL: 'list', LI: 'listitem', TABLE: 'table', TEXTAREA: 'textbox', SELECT: 'listbox',
			H1: 'heading', H2: 'heading', H3: 'heading', H4: 'heading', H5: 'heading', H6: 'heading',
		};
		return {success: true, value: implicit[el.tagName] || 'generic'};
	`, jsVar))
}

// scriptComputedLabel implements the W3C accessible-name computation order:
// aria-labelledby, aria-label, associated <label>, title, then text content.
func scriptComputedLabel(jsVar string) string {
	return wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		function fromLabelledBy() {
			var ids = el.getAttribute('aria-labelledby');
			if (!ids) return null;
			var parts = ids.split(/\s+/).map(function(id) {
				var n = document.getElementById(id);
				return n ? n.textContent.trim() : '';
			}).filter(Boolean);
			return parts.length ? parts.join(' ') : null;
		}
		function fromLabelFor() {
			if (!el.id) return null;
			var label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			return label ? label.textContent.trim() : null;
		}
		var name = fromLabelledBy()
			|| el.getAttribute('aria-label')
			|| (el.closest && el.closest('label') ? el.closest('label').textContent.trim() : null)
			|| fromLabelFor()
			|| el.getAttribute('title')
			|| (el.textContent || '').trim();
		return {success: true, value: name || ''};
	`, jsVar))
}

// keyEventTable maps the W3C normalized-key private-use-area code points
// (U+E000-U+F8FF) to a KeyboardEvent key name. Only the commonly used named
// keys are mapped explicitly; anything else in the PUA range falls back to
// being treated as a literal character.
var keyEventTable = map[rune]string{
	'\uE003': "Backspace",
	'\uE004': "Tab",
	'\uE006': "Enter",
	'\uE007': "Enter",
	'\uE00C': "Escape",
	'\uE008': "Shift",
	'\uE009': "Control",
	'\uE00A': "Alt",
	'\uE03D': "Meta",
	'\uE012': "ArrowLeft",
	'\uE013': "ArrowUp",
	'\uE014': "ArrowRight",
	'\uE015': "ArrowDown",
	'\uE017': "Delete",
	'\uE010': "End",
	'\uE011': "Home",
}

// isModifierKey reports whether r is one of the normalized modifier keys
// that must be tracked as held rather than dispatched as a single keystroke.
func isModifierKey(r rune) bool {
	switch r {
	case '\uE008', '\uE009', '\uE00A', '\uE03D':
		return true
	default:
		return false
	}
}

// extractEnvelope pulls the {success,value|error} envelope apart.
func extractEnvelope(raw any) (any, bool, string) {
	m, ok := raw.(map[string]any)
	if !ok {
		return raw, true, ""
	}
	success, hasSuccess := m["success"].(bool)
	if !hasSuccess {
		return raw, true, ""
	}
	if !success {
		errMsg, _ := m["error"].(string)
		return nil, false, errMsg
	}
	return m["value"], true, ""
}
