// Package service provides the Service, the shared front end of a storage
// with a hook pipeline around command execution.
//
// Usage Example:
//
//	svc := service.New(storage).
//		OnReceived(service.NewLogHook(log)).
//		OnBeforeSend(service.BeforeSendFunc(func(resp *command.Response) {
//			// e.g. override status codes
//		})).
//		Build()
//
//	resp := svc.Execute(command.NewHget("score", "u1"))
//
// Pipeline:
//
//	1. received hooks      observe the request
//	2. dispatch            command.Dispatch against the storage
//	3. executed hooks      observe request and response
//	4. before-send hooks   may modify the response, in registration order
//	5. after-send hooks    run after the response was sent
//
// The hook lists are fixed by Build, so a Service holds no mutable state of
// its own and can be used concurrently without further synchronization.
package service
