// Package client is a small HTTP client for the pricedex API.
//
// Usage:
//
//	c, err := client.New("https://pricedex.internal", client.WithAPIKey("secret"))
//	if err != nil { ... }
//	resp, err := c.Compare(ctx, client.CompareRequest{Query: "johnson's baby oil 300ml"})
package client
