package main

import (
	"fmt"
	"strings"
)

// LocatorStrategy is one of the five W3C locator strategies.
type LocatorStrategy string

const (
	StrategyCSSSelector     LocatorStrategy = "css selector"
	StrategyLinkText        LocatorStrategy = "link text"
	StrategyPartialLinkText LocatorStrategy = "partial link text"
	StrategyTagName         LocatorStrategy = "tag name"
	StrategyXPath           LocatorStrategy = "xpath"
)

// parseLocatorStrategy validates the "using" field of a find-element request.
func parseLocatorStrategy(s string) (LocatorStrategy, bool) {
	switch LocatorStrategy(s) {
	case StrategyCSSSelector, StrategyLinkText, StrategyPartialLinkText, StrategyTagName, StrategyXPath:
		return LocatorStrategy(s), true
	default:
		return "", false
	}
}

// escapeJSString escapes a value for embedding inside a single-quoted JS
// string literal: backslash first, then single quote.
func escapeJSString(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return value
}

// findExpr returns the bare JS expression (no wrapper) that locates element(s)
// relative to the given root expression ("document", "parent", or "shadow").
func findExpr(strategy LocatorStrategy, value, root string, multiple bool) string {
	escaped := escapeJSString(value)
	switch strategy {
	case StrategyCSSSelector:
		if multiple {
			return fmt.Sprintf("Array.from(%s.querySelectorAll('%s'))", root, escaped)
		}
		return fmt.Sprintf("%s.querySelector('%s')", root, escaped)
	case StrategyTagName:
		if root == "document" {
			if multiple {
				return fmt.Sprintf("Array.from(document.getElementsByTagName('%s'))", escaped)
			}
			return fmt.Sprintf("document.getElementsByTagName('%s')[0] || null", escaped)
		}
		if multiple {
			return fmt.Sprintf("Array.from(%s.querySelectorAll('%s'))", root, escaped)
		}
		return fmt.Sprintf("%s.querySelector('%s')", root, escaped)
	case StrategyXPath:
		xpathRoot := "document"
		if root != "document" {
			xpathRoot = root
		}
		if multiple {
			return fmt.Sprintf(`(function() {
				var result = [];
				var iter = document.evaluate('%s', %s, null, XPathResult.ORDERED_NODE_ITERATOR_TYPE, null);
				var node;
				while ((node = iter.iterateNext())) {
					result.push(node);
				}
				return result;
			})()`, escaped, xpathRoot)
		}
		return fmt.Sprintf(`(function() {
			var result = document.evaluate('%s', %s, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
			return result.singleNodeValue;
		})()`, escaped, xpathRoot)
	case StrategyLinkText:
		if multiple {
			return fmt.Sprintf(`Array.from(%s.querySelectorAll('a')).filter(a => a.textContent.trim() === '%s')`, root, escaped)
		}
		return fmt.Sprintf(`Array.from(%s.querySelectorAll('a')).find(a => a.textContent.trim() === '%s') || null`, root, escaped)
	case StrategyPartialLinkText:
		if multiple {
			return fmt.Sprintf(`Array.from(%s.querySelectorAll('a')).filter(a => a.textContent.includes('%s'))`, root, escaped)
		}
		return fmt.Sprintf(`Array.from(%s.querySelectorAll('a')).find(a => a.textContent.includes('%s')) || null`, root, escaped)
	default:
		return "null"
	}
}

// buildFindScript builds a script that stores the find result(s) under the
// global name jsVar (see buildFindStoreScriptWithSetup). Its result is a bare
// value, not a {success, value} envelope; extractEnvelope passes such values
// through unchanged.
func buildFindScript(strategy LocatorStrategy, value string, multiple bool, jsVar string) string {
	expr := findExpr(strategy, value, "document", multiple)
	return buildFindStoreScript(expr, multiple, jsVar)
}

// buildFindFromElementScript is like buildFindScript but scoped to a parent
// element, whose live reference is expected at window.<parentJSVar>.
func buildFindFromElementScript(strategy LocatorStrategy, value string, multiple bool, parentJSVar, jsVar string) string {
	expr := findExpr(strategy, value, "parent", multiple)
	setup := fmt.Sprintf("var parent = window.%s; if (!parent) throw new Error('stale element reference');", parentJSVar)
	return buildFindStoreScriptWithSetup(setup, expr, multiple, jsVar)
}

// buildFindFromShadowScript is like buildFindFromElementScript but scoped to
// a shadow root, whose live reference is expected at window.<shadowJSVar>.
func buildFindFromShadowScript(strategy LocatorStrategy, value string, multiple bool, shadowJSVar, jsVar string) string {
	root := "shadow"
	var expr string
	if strategy == StrategyTagName {
		if multiple {
			expr = fmt.Sprintf("Array.from(%s.querySelectorAll('%s'))", root, escapeJSString(value))
		} else {
			expr = fmt.Sprintf("%s.querySelector('%s')", root, escapeJSString(value))
		}
	} else {
		expr = findExpr(strategy, value, root, multiple)
	}
	setup := fmt.Sprintf("var shadow = window.%s; if (!shadow) throw new Error('stale element reference');", shadowJSVar)
	return buildFindStoreScriptWithSetup(setup, expr, multiple, jsVar)
}

func buildFindStoreScript(expr string, multiple bool, jsVar string) string {
	return buildFindStoreScriptWithSetup("", expr, multiple, jsVar)
}

// buildFindStoreScriptWithSetup wraps a find expression. A single find
// stashes the element as window.<jsVar> and returns true (null when nothing
// matched); a multiple find stashes each match as window.<jsVar>_<i> and
// returns the array of those names. The caller then mints one Ref per
// stashed js variable.
func buildFindStoreScriptWithSetup(setup, expr string, multiple bool, jsVar string) string {
	if multiple {
		return fmt.Sprintf(`(function() {
			%s
			var found = %s;
			var refs = [];
			for (var i = 0; i < found.length; i++) {
				var name = '%s_' + i;
				window[name] = found[i];
				refs.push(name);
			}
			return refs;
		})()`, setup, expr, jsVar)
	}
	return fmt.Sprintf(`(function() {
		%s
		var el = %s;
		if (!el) return null;
		window.%s = el;
		return true;
	})()`, setup, expr, jsVar)
}
