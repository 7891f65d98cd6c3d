// Package ecode defines the business codes, messages and error kinds shared
// by the job service and its HTTP boundary.
//
// # Error Code Convention
//
//   - 0: Success (OK)
//   - -100 to -199: Authentication errors
//   - -400 to -499: Request, resource and state errors
//   - -500+: Server errors
//
// # Error Kinds
//
// Every failure leaving the service layer is an *Error carrying a Kind:
//
//	return ecode.Forbidden("only the owner may assign a driver")
//	return ecode.Unavailable("job repository unavailable", err)
//
// The boundary recovers the kind with KindOf and maps it to an HTTP status:
//
//	switch ecode.KindOf(err) {
//	case ecode.KindNotFound:
//	    // 404
//	}
//
// Errors without a kind are treated as KindInternal and their message is
// never sent to clients.
//
// # Messages
//
//	ecode.FieldIsRequired("title") // "title required"
//	ecode.NotExist("job")          // "job does not exist"
package ecode
