// Package client talks to a ZeroClaw gateway over HTTP.
//
// A Client sends chat messages to POST {base}/webhook and probes
// GET {base}/health. All text it keeps or receives is bounded: the base URL
// to 128 bytes, the API key to 64 bytes and reply bodies to 2048 bytes.
//
// Example usage:
//
//	c, err := client.New("http://192.168.1.10:8080", client.WithAPIKey(key))
//	if err != nil {
//		return err
//	}
//	reply, err := c.SendMessage(ctx, "hello")
//	if err != nil {
//		fmt.Println(client.ShortMessage(err))
//	}
package client
