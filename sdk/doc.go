// Package sdk is a generic client for AWS services speaking the query,
// ec2, json and rest-json protocols.
//
// A Client turns an action name and a tree of parameters into a signed
// HTTP request, sends it, retries transient failures and decodes the
// response into a canonical tree. Nothing in the package is generated per
// service: the wire protocol, API version, endpoint prefix and signing
// name all come from the service catalog.
//
// # Quick Start
//
//	import "github.com/tombee/genaws/sdk"
//
//	func main() {
//		client, err := sdk.New(
//			sdk.WithCredentials(credentials.Static(ak, sk, "")),
//		)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		out, err := client.Call(ctx, "us-east-1", "sts", sdk.ActionInput{
//			Action: "GetCallerIdentity",
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(out.Path("GetCallerIdentityResult", "Arn").Text())
//	}
//
// # Parameters
//
// Parameters are a *canon.Node. For the query and ec2 protocols the tree
// is flattened into dotted keys (Filter.1.Name=...); for json protocols a
// POST sends it as the JSON body.
//
//	params := canon.NewObject().
//		Set("StreamName", canon.String("events")).
//		Set("Limit", canon.Int(10))
//
// # Errors
//
// Every failure is one of the typed errors in pkg/errors:
// ConfigurationError for bad setup, ClientError when no response was
// received, ServiceError when the service answered with a failure and
// ParseError when a success body was malformed.
//
// # Retries
//
// The client's retry.Policy decides which errors are retried and how long
// to wait. Each attempt is re-stamped and re-signed with a fresh
// credential snapshot.
//
// # Observability
//
// Calls are logged through log/slog, traced with OpenTelemetry (one span
// per call, one child span per attempt) and counted in the
// genaws_calls_total, genaws_attempts_total and genaws_retries_total
// metrics.
package sdk
