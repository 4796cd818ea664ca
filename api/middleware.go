package api

import (
	"fmt"
	"net/http"
	"os"

	raven "github.com/getsentry/raven-go"
	"github.com/gorilla/handlers"
)

func middleware(mux *http.ServeMux) http.Handler {
	originsOk := handlers.AllowedOrigins([]string{os.Getenv("ALLOWED_ORIGINS")})

	return handlers.LoggingHandler(os.Stdout,
		recoveryHandler(
			handlers.CORS(originsOk)(mux),
		),
	)
}

func recoveryHandler(f http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		defer func() {
			if err, ok := recover().(error); ok {
				rvalStr := fmt.Sprint(err)
				packet := raven.NewPacket(rvalStr, raven.NewException(err, raven.GetOrNewStacktrace(err, 2, 3, nil)), raven.NewHttp(r))
				raven.Capture(packet, nil)
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()

		f.ServeHTTP(w, r)
	})
}
