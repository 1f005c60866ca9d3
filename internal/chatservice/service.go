// Package chatservice manages the keyword-matched virtual assistant.
package chatservice

import (
	"context"
	"strings"
	"time"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/pkg/randompkg"
)

// Topic is one scripted conversation subject: a trigger keyword set and the
// candidate responses, one of which is picked uniformly at random.
type Topic struct {
	Name      string
	Keywords  []string
	Responses []string
}

// Topics are evaluated in declaration order; the first one with a keyword
// contained in the lowercased input wins.
var topics = []Topic{
	{
		Name:     "greeting",
		Keywords: []string{"hola", "buenos días", "buenas tardes", "buenas noches", "saludos"},
		Responses: []string{
			"¡Hola! ¿En qué puedo ayudarte con tus servicios bancarios?",
			"¡Buenos días! Estoy aquí para asistirte con cualquier consulta bancaria.",
			"¡Hola! Soy tu asistente virtual de Banco Acme. ¿Qué necesitas?",
		},
	},
	{
		Name:     "balance",
		Keywords: []string{"saldo", "balance", "dinero", "cuenta", "cuánto tengo", "disponible"},
		Responses: []string{
			"Para consultar tu saldo actual, puedes:\n\n• Ingresar al sistema con tus credenciales\n• Usar la sección \"Resumen de Cuenta\" en el dashboard\n• Llamar a nuestra línea de atención al cliente\n\n¿Necesitas ayuda para acceder a tu cuenta?",
		},
	},
	{
		Name:     "transfer",
		Keywords: []string{"transferencia", "enviar dinero", "transferir", "envío", "mandar dinero"},
		Responses: []string{
			"Para realizar transferencias puedes:\n\n• Usar la opción \"Consignación Electrónica\" en el dashboard\n• Transferir entre cuentas propias\n• Enviar dinero a otras cuentas del mismo banco\n\nRecuerda que necesitas:\n✓ Número de cuenta destino\n✓ Cédula del beneficiario\n✓ Saldo suficiente en tu cuenta\n\n¿Te gustaría que te guíe paso a paso?",
		},
	},
	{
		Name:     "hours",
		Keywords: []string{"horario", "hora", "atención", "abierto", "cerrado"},
		Responses: []string{
			"Nuestros horarios de atención son:\n\n🏦 Sucursales físicas:\nLunes a Viernes: 8:00 AM - 4:00 PM\nSábados: 8:00 AM - 12:00 PM\n\n💻 Banca en línea:\nDisponible 24/7\n\n📞 Línea de atención:\nLunes a Domingo: 24 horas\nTeléfono: 018000-123456\n\n¿Necesitas direcciones de nuestras sucursales?",
		},
	},
	{
		Name:     "certificate",
		Keywords: []string{"certificado", "constancia", "documento", "comprobante"},
		Responses: []string{
			"Puedes solicitar los siguientes certificados:\n\n📋 Certificados disponibles:\n• Certificado de cuenta corriente/ahorros\n• Certificado de ingresos y retenciones\n• Certificado de movimientos de cuenta\n• Paz y salvo\n\n📝 Proceso:\n1. Accede a \"Certificado Bancario\" en el dashboard\n2. Selecciona el tipo de certificado\n3. Completa la información requerida\n4. Descarga tu certificado en PDF\n\n¿Qué tipo de certificado necesitas?",
		},
	},
	{
		Name:     "services",
		Keywords: []string{"servicio", "producto", "oferta", "qué pueden", "opciones"},
		Responses: []string{
			"Ofrecemos los siguientes servicios:\n\n💳 Productos:\n• Cuentas de ahorro y corriente\n• Tarjetas débito y crédito\n• Préstamos personales e hipotecarios\n• CDT (Certificados de Depósito a Término)\n\n💻 Servicios digitales:\n• Banca en línea\n• Transferencias electrónicas\n• Pago de servicios públicos\n• Consulta de movimientos\n\n¿Te interesa información específica sobre algún servicio?",
		},
	},
	{
		Name:     "support",
		Keywords: []string{"ayuda", "soporte", "problema", "contacto", "asistencia"},
		Responses: []string{
			"Estoy aquí para ayudarte. Puedes contactar nuestro soporte:\n\n📞 Línea de atención:\n• Teléfono: 018000-123456\n• Disponible 24/7\n\n📧 Email:\n• soporte@bancoacme.com\n• Respuesta en 24 horas\n\n🏦 Presencial:\n• Visita cualquiera de nuestras sucursales\n• Lleva tu documento de identidad\n\n¿En qué específicamente puedo ayudarte?",
		},
	},
	{
		Name:     "cards",
		Keywords: []string{"tarjeta", "débito", "plástico"},
		Responses: []string{
			"Información sobre tarjetas:\n\n💳 Tarjetas de débito:\n• Vinculada a tu cuenta de ahorros\n• Sin cuota de manejo\n• Retiros en cajeros propios gratis\n\n💳 Tarjetas de crédito:\n• Diferentes tipos según tu perfil\n• Cupos desde $500.000\n• Programa de puntos y beneficios\n\n🔒 Seguridad:\n• Chip y clave\n• Notificaciones por SMS\n• Bloqueo inmediato disponible\n\n¿Qué información específica necesitas sobre las tarjetas?",
		},
	},
	{
		Name:     "loans",
		Keywords: []string{"préstamo", "crédito", "financiamiento", "solicitar dinero"},
		Responses: []string{
			"Opciones de crédito disponibles:\n\n💰 Préstamos personales:\n• Hasta $50.000.000\n• Tasas desde 1.2% mensual\n• Plazos hasta 60 meses\n\n🏠 Crédito hipotecario:\n• Hasta 80% del valor del inmueble\n• Plazos hasta 20 años\n• Tasas preferenciales\n\n📋 Requisitos generales:\n• Cédula de ciudadanía\n• Comprobante de ingresos\n• Referencias comerciales\n\n¿Te interesa algún tipo de crédito específico?",
		},
	},
	{
		Name:     "payments",
		Keywords: []string{"pago", "pagar", "factura", "servicio público"},
		Responses: []string{
			"Puedes pagar servicios públicos de forma fácil:\n\n⚡ Servicios disponibles:\n• Energía eléctrica\n• Agua y alcantarillado\n• Gas natural\n• Internet y telefonía\n\n💻 Cómo pagar:\n1. Ve a \"Pago de Servicios\" en el dashboard\n2. Selecciona el tipo de servicio\n3. Ingresa la referencia de pago\n4. Confirma el valor\n5. Autoriza la transacción\n\n¿Necesitas ayuda con algún pago específico?",
		},
	},
	{
		Name:     "security",
		Keywords: []string{"seguridad", "clave", "contraseña", "bloquear", "desbloquear"},
		Responses: []string{
			"Información de seguridad:\n\n🔐 Contraseñas:\n• Cambia tu clave periódicamente\n• Usa combinación de letras, números y símbolos\n• No compartas tus credenciales\n\n🛡️ Protección:\n• Nunca ingreses datos en links sospechosos\n• Verifica siempre la URL del banco\n• Cierra sesión después de usar\n\n🚨 Emergencias:\n• Línea disponible 24/7\n• Bloqueo inmediato de productos\n• Reporta transacciones no autorizadas al 018000-123456\n\n¿Tienes alguna preocupación específica de seguridad?",
		},
	},
	{
		Name:     "thanks",
		Keywords: []string{"gracias", "muchas gracias"},
		Responses: []string{
			"¡De nada! Estoy aquí para ayudarte cuando lo necesites.",
			"Es un placer ayudarte. ¿Hay algo más en lo que pueda asistirte?",
			"¡Con gusto! Para eso estoy aquí. ¿Necesitas algo más?",
		},
	},
	{
		Name:     "farewell",
		Keywords: []string{"adiós", "chao", "hasta luego"},
		Responses: []string{
			"¡Hasta luego! Que tengas un excelente día.",
			"Nos vemos pronto. ¡Gracias por usar Banco Acme!",
			"¡Adiós! Recuerda que estoy aquí 24/7 para ayudarte.",
		},
	},
}

// FallbackTopic names the reply returned when no topic matches.
const FallbackTopic = "fallback"

const fallbackResponse = "No estoy seguro de haber entendido tu consulta. Puedo ayudarte con:\n\n• Información sobre saldos y cuentas\n• Transferencias y pagos\n• Servicios bancarios\n• Horarios de atención\n• Certificados y documentos\n• Tarjetas y créditos\n• Soporte técnico\n\n¿Podrías ser más específico sobre lo que necesitas?"

// WelcomeMessage opens every conversation.
const WelcomeMessage = "¡Hola! Soy tu asistente virtual de Banco Acme. ¿En qué puedo ayudarte hoy?"

// Service facilitates chat service layer logic.
type Service struct {
	typingDelay time.Duration
}

// New returns chat service struct with the given simulated typing delay.
// A zero delay answers immediately.
func New(typingDelay time.Duration) *Service {
	return &Service{typingDelay: typingDelay}
}

// Respond picks the reply for a user message. The simulated typing delay
// runs first and is cancellable through ctx.
func (s *Service) Respond(ctx context.Context, message string) (domain.ChatReply, error) {
	if s.typingDelay > 0 {
		timer := time.NewTimer(s.typingDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return domain.ChatReply{}, ctx.Err()
		case <-timer.C:
		}
	}

	lowered := strings.ToLower(message)

	for _, topic := range topics {
		for _, keyword := range topic.Keywords {
			if strings.Contains(lowered, keyword) {
				return domain.ChatReply{
					Topic:     topic.Name,
					Message:   topic.Responses[randompkg.Intn(len(topic.Responses))],
					Timestamp: time.Now().UTC(),
				}, nil
			}
		}
	}

	return domain.ChatReply{
		Topic:     FallbackTopic,
		Message:   fallbackResponse,
		Timestamp: time.Now().UTC(),
	}, nil
}
