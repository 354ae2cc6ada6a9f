package main

import "net/http"

func printRoutes() []route {
	return []route{
		{http.MethodPost, "/session/{session}/print", routeOpts{}, handlePrintPage},
	}
}

func printOptionsFromBody(body map[string]any) PrintOptions {
	opts := PrintOptions{Background: false, Scale: 1, ShrinkToFit: true}
	if orientation, ok := body["orientation"].(string); ok {
		opts.Orientation = orientation
	}
	if scale, ok := body["scale"].(float64); ok {
		opts.Scale = scale
	}
	if background, ok := body["background"].(bool); ok {
		opts.Background = background
	}
	if shrink, ok := body["shrinkToFit"].(bool); ok {
		opts.ShrinkToFit = shrink
	}
	if page, ok := body["page"].(map[string]any); ok {
		if w, ok := page["width"].(float64); ok {
			opts.PageWidth = w
		}
		if h, ok := page["height"].(float64); ok {
			opts.PageHeight = h
		}
	}
	if margin, ok := body["margin"].(map[string]any); ok {
		if v, ok := margin["top"].(float64); ok {
			opts.MarginTop = v
		}
		if v, ok := margin["bottom"].(float64); ok {
			opts.MarginBottom = v
		}
		if v, ok := margin["left"].(float64); ok {
			opts.MarginLeft = v
		}
		if v, ok := margin["right"].(float64); ok {
			opts.MarginRight = v
		}
	}
	if ranges, ok := body["pageRanges"].([]any); ok {
		for _, r := range ranges {
			if s, ok := r.(string); ok {
				opts.PageRanges = append(opts.PageRanges, s)
			}
		}
	}
	return opts
}

func handlePrintPage(rc *reqCtx) (any, *WebDriverError) {
	opts := printOptionsFromBody(rc.body)
	rc.session.backendLock.Lock()
	data, err := rc.srv.backend.PrintPDF(rc.r.Context(), opts)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return base64Encode(data), nil
}
