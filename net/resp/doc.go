// Package resp provides the JSON response envelope of the HTTP API.
//
// Success bodies always carry a "message" and the operation payload at the
// top level:
//
//	resp.Success(w, resp.Payload{"message": "job created", "jobId": id})
//	// {"message": "job created", "jobId": "..."}
//
// Failure bodies carry the message, a business code and error: true:
//
//	resp.Fail(w, resp.NotFound("job does not exist"))
//	// 404 {"code": -404, "message": "job does not exist", "error": true}
//
// FromError maps a classified error (see package ecode) to the matching
// response; unclassified errors become a generic 500.
package resp
