// Package uisurface drives the SCIM client web application through its
// automation bridge: a small JSON-over-HTTP contract the client exposes for
// deterministic end-to-end checking, instead of brittle visible-text
// selectors.
//
// The bridge lives under /e2e/ on the client origin:
//
//	POST   /e2e/session        {"viewport":{"width":W,"height":H}}  -> 201 {"id":"..."}
//	DELETE /e2e/session                                             -> 204
//	POST   /e2e/config         {"endpoint":"...","apiKey":"..."}    -> 202
//	POST   /e2e/navigate       {"label":"Users"}                    -> 202
//	POST   /e2e/form/open      {}                                   -> 202
//	POST   /e2e/form/submit    {"fields":{"userName":"..."}}        -> 202
//	GET    /e2e/state                                               -> 200 state document
//
// Every call after session creation carries the session id in the
// X-Scim-Session header; the client keeps one isolated UI instance per id.
// Mutating calls are acknowledged with 202 and take effect asynchronously;
// the runner observes their outcome by polling /e2e/state. The state
// document mirrors domain.SurfaceState:
//
//	{
//	  "path": "/users",
//	  "configured": true,
//	  "configError": "",
//	  "loading": false,
//	  "heading": "Users",
//	  "navigation": ["Users","Groups","Entitlements","Roles","Server Config","Settings"],
//	  "controls": ["Create User"],
//	  "list": {"count": 2, "empty": false},
//	  "form": {"title":"Create User","fields":["userName"],"validation":{"email":"required"}},
//	  "banner": {"kind":"success","message":"User created"},
//	  "inspector": {"method":"POST","url":"...","status":201,"request":{},"response":{}}
//	}
package uisurface
