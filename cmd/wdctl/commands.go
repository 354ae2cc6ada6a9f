package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

const elementMagicKey = "element-6066-11e4-a52e-4f735466cecf"

// findElement resolves a CSS selector to the handle embedded in a W3C
// element reference object, the same shape every find-element endpoint
// returns.
func findElement(c *client, sessionID, selector string) (string, error) {
	v, err := c.do(http.MethodPost, "/session/"+sessionID+"/element", map[string]any{
		"using": "css selector",
		"value": selector,
	})
	if err != nil {
		return "", err
	}
	m, _ := v.(map[string]any)
	handle, _ := m[elementMagicKey].(string)
	if handle == "" {
		return "", fmt.Errorf("no element matched %q", selector)
	}
	return handle, nil
}

func newNavigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "navigate <url>",
		Aliases: []string{"nav"},
		Short:   "navigate to a URL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			_, err = c.do(http.MethodPost, "/session/"+id+"/url", map[string]any{"url": args[0]})
			return err
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "print the current page source",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			v, err := c.do(http.MethodGet, "/session/"+id+"/source", nil)
			if err != nil {
				return err
			}
			source, _ := v.(string)
			fmt.Println(source)
			return nil
		},
	}
}

func newClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "click <selector>",
		Short: "find and click an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			el, err := findElement(c, id, args[0])
			if err != nil {
				return err
			}
			_, err = c.do(http.MethodPost, "/session/"+id+"/element/"+el+"/click", map[string]any{})
			return err
		},
	}
}

func newTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "type <selector> <text>",
		Aliases: []string{"fill"},
		Short:   "find an element and send it keystrokes",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			el, err := findElement(c, id, args[0])
			if err != nil {
				return err
			}
			_, err = c.do(http.MethodPost, "/session/"+id+"/element/"+el+"/value", map[string]any{"text": args[1]})
			return err
		},
	}
}

func newPressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "press <key>",
		Short: "dispatch a single key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			key := args[0]
			_, err = c.do(http.MethodPost, "/session/"+id+"/actions", map[string]any{
				"actions": []any{
					map[string]any{
						"type": "key",
						"id":   "wdctl-keyboard",
						"actions": []any{
							map[string]any{"type": "keyDown", "value": key},
							map[string]any{"type": "keyUp", "value": key},
						},
					},
				},
			})
			return err
		},
	}
}

func newHoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hover <selector>",
		Short: "move the pointer over an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			el, err := findElement(c, id, args[0])
			if err != nil {
				return err
			}
			rectV, err := c.do(http.MethodGet, "/session/"+id+"/element/"+el+"/rect", nil)
			if err != nil {
				return err
			}
			rect, _ := rectV.(map[string]any)
			x, _ := rect["x"].(float64)
			y, _ := rect["y"].(float64)
			w, _ := rect["width"].(float64)
			h, _ := rect["height"].(float64)
			_, err = c.do(http.MethodPost, "/session/"+id+"/actions", map[string]any{
				"actions": []any{
					map[string]any{
						"type": "pointer",
						"id":   "wdctl-mouse",
						"actions": []any{
							map[string]any{"type": "pointerMove", "x": x + w/2, "y": y + h/2},
						},
					},
				},
			})
			return err
		},
	}
}

func newScrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scroll <dx> <dy>",
		Short: "scroll the viewport",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			var dx, dy float64
			if _, err := fmt.Sscanf(args[0], "%f", &dx); err != nil {
				return fmt.Errorf("invalid dx: %v", err)
			}
			if _, err := fmt.Sscanf(args[1], "%f", &dy); err != nil {
				return fmt.Errorf("invalid dy: %v", err)
			}
			_, err = c.do(http.MethodPost, "/session/"+id+"/actions", map[string]any{
				"actions": []any{
					map[string]any{
						"type": "wheel",
						"id":   "wdctl-wheel",
						"actions": []any{
							map[string]any{"type": "scroll", "x": 0, "y": 0, "deltaX": dx, "deltaY": dy},
						},
					},
				},
			})
			return err
		},
	}
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <selector> <value>",
		Short: "choose an <option> by value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			script := `
				var select = arguments[0];
				var value = arguments[1];
				for (var i = 0; i < select.options.length; i++) {
					if (select.options[i].value === value) {
						select.selectedIndex = i;
						select.dispatchEvent(new Event('change', {bubbles: true}));
						return true;
					}
				}
				return false;
			`
			el, err := findElement(c, id, args[0])
			if err != nil {
				return err
			}
			found, err := c.do(http.MethodPost, "/session/"+id+"/execute/sync", map[string]any{
				"script": script,
				"args":   []any{map[string]any{elementMagicKey: el}, args[1]},
			})
			if err != nil {
				return err
			}
			if ok, _ := found.(bool); !ok {
				return fmt.Errorf("no option with value %q", args[1])
			}
			return nil
		},
	}
}

func newFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus <selector>",
		Short: "focus an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			el, err := findElement(c, id, args[0])
			if err != nil {
				return err
			}
			_, err = c.do(http.MethodPost, "/session/"+id+"/execute/sync", map[string]any{
				"script": "arguments[0].focus();",
				"args":   []any{map[string]any{elementMagicKey: el}},
			})
			return err
		},
	}
}

func newTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text <selector>",
		Short: "print an element's rendered text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			el, err := findElement(c, id, args[0])
			if err != nil {
				return err
			}
			v, err := c.do(http.MethodGet, "/session/"+id+"/element/"+el+"/text", nil)
			if err != nil {
				return err
			}
			text, _ := v.(string)
			fmt.Println(text)
			return nil
		},
	}
}

func newTabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "list open window handles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			v, err := c.do(http.MethodGet, "/session/"+id+"/window/handles", nil)
			if err != nil {
				return err
			}
			handles, _ := v.([]any)
			for _, h := range handles {
				fmt.Println(h)
			}
			return nil
		},
	}
}

func newTabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tab <handle|new>",
		Short: "switch to a window, or open a new one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			if args[0] == "new" {
				v, err := c.do(http.MethodPost, "/session/"+id+"/window/new", map[string]any{"type": "tab"})
				if err != nil {
					return err
				}
				m, _ := v.(map[string]any)
				fmt.Println(m["handle"])
				return nil
			}
			_, err = c.do(http.MethodPost, "/session/"+id+"/window", map[string]any{"handle": args[0]})
			return err
		},
	}
}

func newScreenshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "screenshot [file]",
		Aliases: []string{"ss"},
		Short:   "save a PNG screenshot",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			v, err := c.do(http.MethodGet, "/session/"+id+"/screenshot", nil)
			if err != nil {
				return err
			}
			encoded, _ := v.(string)
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return fmt.Errorf("decode screenshot: %w", err)
			}
			path := "screenshot.png"
			if len(args) == 1 {
				path = args[0]
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "eval <script>",
		Aliases: []string{"evaluate"},
		Short:   "run a script and print its result",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			v, err := c.do(http.MethodPost, "/session/"+id+"/execute/sync", map[string]any{
				"script": "return (" + args[0] + ");",
				"args":   []any{},
			})
			if err != nil {
				return err
			}
			fmt.Printf("%v\n", v)
			return nil
		},
	}
}

func newPDFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pdf [file]",
		Short: "save the page as a PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			id, err := c.ensureSession()
			if err != nil {
				return err
			}
			v, err := c.do(http.MethodPost, "/session/"+id+"/print", map[string]any{})
			if err != nil {
				return err
			}
			encoded, _ := v.(string)
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return fmt.Errorf("decode pdf: %w", err)
			}
			path := "page.pdf"
			if len(args) == 1 {
				path = args[0]
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "check the server's /status endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			v, err := c.do(http.MethodGet, "/status", nil)
			if err != nil {
				return err
			}
			fmt.Printf("%v\n", v)
			return nil
		},
	}
}
