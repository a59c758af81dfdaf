// Package httpclient provides a typed Go client for the flows server
// REST API.
//
// Create a client with:
//
//	client, err := httpclient.New("http://localhost:3400/api/flow")
//	if err != nil {
//	   panic(err)
//	}
//
// Then run a flow:
//
//	result, err := client.RunFlow(ctx, "mainFlow", "Tell me a joke")
package httpclient
