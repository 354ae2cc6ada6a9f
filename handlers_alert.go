package main

import "net/http"

func alertRoutes() []route {
	opts := routeOpts{alertRoute: true}
	return []route{
		{http.MethodPost, "/session/{session}/alert/dismiss", opts, handleAlertDismiss},
		{http.MethodPost, "/session/{session}/alert/accept", opts, handleAlertAccept},
		{http.MethodGet, "/session/{session}/alert/text", opts, handleAlertGetText},
		{http.MethodPost, "/session/{session}/alert/text", opts, handleAlertSendText},
	}
}

func handleAlertDismiss(rc *reqCtx) (any, *WebDriverError) {
	if err := rc.session.Alerts.Resolve(false); err != nil {
		return nil, err
	}
	return nil, nil
}

func handleAlertAccept(rc *reqCtx) (any, *WebDriverError) {
	if err := rc.session.Alerts.Resolve(true); err != nil {
		return nil, err
	}
	return nil, nil
}

func handleAlertGetText(rc *reqCtx) (any, *WebDriverError) {
	msg, err := rc.session.Alerts.Message()
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func handleAlertSendText(rc *reqCtx) (any, *WebDriverError) {
	text, _ := rc.body["text"].(string)
	if err := rc.session.Alerts.SetPromptInput(text); err != nil {
		return nil, err
	}
	return nil, nil
}
