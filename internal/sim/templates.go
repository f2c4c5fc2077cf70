package sim

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kubeshield/audit-service/internal/event"
)

// Vocabularies for realistic field values.
var (
	cves = []string{
		"CVE-2024-3847",
		"CVE-2024-21626",
		"CVE-2024-0193",
		"CVE-2023-44487",
		"CVE-2023-42793",
		"CVE-2023-38545",
		"CVE-2023-32233",
		"CVE-2023-29491",
		"CVE-2023-20198",
		"CVE-2023-4911",
	}

	suspiciousIPPrefixes = []string{
		"192.168.100.",
		"10.255.0.",
		"172.16.99.",
		"203.0.113.",
		"198.51.100.",
	}

	egressPorts = []int{22, 23, 3389, 4444, 6666, 8080, 9001}

	namespaces = []string{
		"production",
		"staging",
		"development",
		"monitoring",
		"payments",
		"auth-service",
		"data-pipeline",
		"frontend",
		"backend-api",
		"ml-workloads",
	}

	podPrefixes = []string{
		"api-gateway",
		"user-service",
		"payment-processor",
		"data-worker",
		"auth-handler",
		"cache-manager",
		"queue-consumer",
		"web-frontend",
		"analytics-engine",
		"ml-inference",
	}

	images = []string{
		"gcr.io/production/api:v2.3.1",
		"docker.io/library/nginx:latest",
		"quay.io/prometheus/prometheus:v2.48.0",
		"registry.k8s.io/coredns:v1.11.1",
		"ghcr.io/internal/payment-service:1.4.2",
		"public.ecr.aws/bitnami/redis:7.2",
		"untrusted-registry.io/malicious:latest",
		"docker.io/library/alpine:3.19",
	}

	nodes = []string{
		"worker-node-01",
		"worker-node-02",
		"worker-node-03",
		"compute-large-01",
		"compute-large-02",
	}

	policies = []string{
		"default-security-policy",
		"production-strict",
		"payment-pci-policy",
		"network-egress-policy",
		"registry-allowlist",
	}

	miningPools = []string{
		"stratum+tcp://xmr.pool.minergate.com:45700",
		"stratum+tcp://pool.supportxmr.com:3333",
		"stratum+tcp://xmrpool.eu:5555",
	}

	lateralTargets = []string{
		"kubernetes.default.svc",
		"kube-apiserver:6443",
		"etcd:2379",
		"metadata.google.internal",
	}

	driftKinds = []string{
		"SecurityContext modified",
		"Environment variables changed",
		"Resource limits removed",
		"Network policy bypassed",
	}

	badRegistries = []string{
		"untrusted-registry.io",
		"public.ecr.aws/unknown",
		"docker.io/malicious-user",
	}

	escalations = []string{
		"setuid binary execution",
		"CAP_SYS_ADMIN capability usage",
		"ptrace syscall detected",
		"Namespace manipulation attempt",
	}
)

// template pairs a synthesis function with its selection weight.
type template struct {
	weight   int
	generate func(g *Generator) event.SecurityEvent
}

// Weighted towards the more common event kinds; weights sum to 100.
var templates = []template{
	{25, (*Generator).cveEvent},
	{20, (*Generator).egressEvent},
	{15, (*Generator).privilegedEvent},
	{10, (*Generator).cryptoMiningEvent},
	{10, (*Generator).lateralMovementEvent},
	{10, (*Generator).configDriftEvent},
	{5, (*Generator).registryViolationEvent},
	{5, (*Generator).privilegeEscalationEvent},
}

// randomEvent picks a template by weight and synthesizes an event from it.
func (g *Generator) randomEvent() event.SecurityEvent {
	total := 0
	for _, t := range templates {
		total += t.weight
	}
	r := rand.IntN(total)
	for _, t := range templates {
		if r < t.weight {
			return t.generate(g)
		}
		r -= t.weight
	}
	return templates[len(templates)-1].generate(g)
}

func pick[T any](xs []T) T {
	return xs[rand.IntN(len(xs))]
}

func randomPodName() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return pick(podPrefixes) + "-" + string(suffix)
}

func (g *Generator) timestamp() string {
	return g.now().UTC().Format(time.RFC3339)
}

func (g *Generator) cveEvent() event.SecurityEvent {
	cve := pick(cves)
	image := pick(images)
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypeCVEDetected,
		Severity:    pick([]string{event.SeverityCritical, event.SeverityHigh, event.SeverityMedium}),
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "main",
		Image:       image,
		Reason:      fmt.Sprintf("%s detected in container image", cve),
		Action:      event.ActionAudit,
		PolicyName:  pick(policies),
		NodeName:    pick(nodes),
		Description: fmt.Sprintf("Container vulnerability scan detected %s in image %s. CVSS score indicates potential remote code execution.", cve, image),
	}
}

func (g *Generator) egressEvent() event.SecurityEvent {
	dest := fmt.Sprintf("%s%d:%d", pick(suspiciousIPPrefixes), rand.IntN(254)+1, pick(egressPorts))
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypeUnauthorizedEgress,
		Severity:    event.SeverityHigh,
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "main",
		Image:       pick(images),
		Reason:      fmt.Sprintf("Unauthorized egress to %s", dest),
		Action:      event.ActionAudit,
		PolicyName:  "network-egress-policy",
		NodeName:    pick(nodes),
		Description: fmt.Sprintf("Pod attempted outbound connection to %s which is not in the allowed egress list. This may indicate data exfiltration or C2 communication.", dest),
	}
}

func (g *Generator) privilegedEvent() event.SecurityEvent {
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypePrivilegedContainer,
		Severity:    event.SeverityCritical,
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "privileged-worker",
		Image:       pick(images),
		Reason:      "Privileged container detected",
		Action:      pick([]string{event.ActionTerminated, event.ActionAudit}),
		PolicyName:  "default-security-policy",
		NodeName:    pick(nodes),
		Description: "Container is running in privileged mode with access to host kernel capabilities. Pod terminated to prevent potential container escape.",
	}
}

func (g *Generator) cryptoMiningEvent() event.SecurityEvent {
	pool := pick(miningPools)
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypeCryptoMining,
		Severity:    event.SeverityCritical,
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "main",
		Image:       "alpine:latest",
		Reason:      "Crypto mining activity detected",
		Action:      event.ActionTerminated,
		PolicyName:  "default-security-policy",
		NodeName:    pick(nodes),
		Description: fmt.Sprintf("Process attempted to connect to mining pool at %s. Container terminated immediately.", pool),
	}
}

func (g *Generator) lateralMovementEvent() event.SecurityEvent {
	target := pick(lateralTargets)
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypeLateralMovement,
		Severity:    event.SeverityCritical,
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "main",
		Image:       pick(images),
		Reason:      fmt.Sprintf("Suspicious access attempt to %s", target),
		Action:      event.ActionAudit,
		PolicyName:  "default-security-policy",
		NodeName:    pick(nodes),
		Description: fmt.Sprintf("Container made unexpected connection attempt to internal service %s. This may indicate lateral movement or service account token abuse.", target),
	}
}

func (g *Generator) configDriftEvent() event.SecurityEvent {
	drift := pick(driftKinds)
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypeConfigDrift,
		Severity:    event.SeverityMedium,
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "main",
		Image:       pick(images),
		Reason:      drift,
		Action:      event.ActionAudit,
		PolicyName:  pick(policies),
		NodeName:    pick(nodes),
		Description: fmt.Sprintf("Configuration drift detected: %s. Pod configuration does not match declared GitOps state.", drift),
	}
}

func (g *Generator) registryViolationEvent() event.SecurityEvent {
	registry := pick(badRegistries)
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypeDisallowedRegistry,
		Severity:    event.SeverityHigh,
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "main",
		Image:       registry + "/suspicious-image:latest",
		Reason:      fmt.Sprintf("Image from disallowed registry: %s", registry),
		Action:      event.ActionTerminated,
		PolicyName:  "registry-allowlist",
		NodeName:    pick(nodes),
		Description: fmt.Sprintf("Pod attempted to use image from %s which is not in the approved registry list. Pod terminated.", registry),
	}
}

func (g *Generator) privilegeEscalationEvent() event.SecurityEvent {
	escalation := pick(escalations)
	return event.SecurityEvent{
		Timestamp:   g.timestamp(),
		EventType:   event.TypePrivilegeEscalation,
		Severity:    event.SeverityCritical,
		PodName:     randomPodName(),
		Namespace:   pick(namespaces),
		Container:   "main",
		Image:       pick(images),
		Reason:      fmt.Sprintf("Privilege escalation: %s", escalation),
		Action:      event.ActionTerminated,
		PolicyName:  "default-security-policy",
		NodeName:    pick(nodes),
		Description: fmt.Sprintf("Detected %s which may indicate container escape attempt. Immediate action taken.", escalation),
	}
}
