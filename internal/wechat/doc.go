// Package wechat is a minimal client for the WeChat Official Account API.
//
// It covers what publishing an article needs: access token exchange,
// permanent image material upload (article covers), in-article image
// upload, and draft creation. Responses are parsed with gjson; any
// non-zero errcode is returned as an *APIError.
package wechat
