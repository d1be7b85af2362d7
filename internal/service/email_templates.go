package service

import "fmt"

func welcomeEmailTemplate(appName, appURL string) (subject, body string) {
	subject = fmt.Sprintf("Bienvenido a %s", appName)
	body = fmt.Sprintf(`Tu cuenta está lista.

El ciclo no se rompe solo. Entra y completa tu primer pilar:

%s

— %s`, appURL, appName)
	return subject, body
}

func licenseActivatedEmailTemplate(appName, appURL string) (subject, body string) {
	subject = fmt.Sprintf("%s: acceso activado", appName)
	body = fmt.Sprintf(`Tu compra fue verificada y tu acceso completo está activo.

Vuelve a la app y continúa donde lo dejaste:

%s

— %s`, appURL, appName)
	return subject, body
}
