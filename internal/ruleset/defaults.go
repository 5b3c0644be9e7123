package ruleset

import "github.com/tcpguard/tcpguard/internal/risktypes"

// DefaultVersion identifies the compiled-in rule table.
const DefaultVersion = "builtin-1"

// defaultProfileDefinitions is the compiled-in command risk knowledge base.
// Loading a TOML rule table replaces it wholesale; the two are never merged.
var defaultProfileDefinitions = []ProfileDef{
	// Privilege escalation
	NewProfile("sudo", "su", "doas", "pkexec").
		PrivilegeRisk(risktypes.RiskTierCritical, "Allows execution with elevated privileges, can compromise entire system").
		Build(),

	// Destructive operations
	NewProfile("rm", "unlink").
		DestructionRisk(risktypes.RiskTierHigh, "Can delete files and directories").
		FileModRisk(risktypes.RiskTierMedium, "Modifies the filesystem").
		Reason("Can delete files and directories").
		Perf(50, 4, 1).
		Build(),
	NewProfile("shred", "wipe").
		DestructionRisk(risktypes.RiskTierCritical, "Overwrites file contents beyond recovery").
		Build(),
	NewProfile("dd").
		DestructionRisk(risktypes.RiskTierCritical, "Can overwrite entire disks, potential data loss").
		FileModRisk(risktypes.RiskTierHigh, "Writes raw data to arbitrary targets").
		Reason("Can overwrite entire disks, potential data loss").
		Build(),
	NewProfile("mkfs", "fdisk", "parted", "sgdisk").
		DestructionRisk(risktypes.RiskTierCritical, "Destroys existing filesystems and partition tables").
		SystemModRisk(risktypes.RiskTierHigh, "Alters disk layout").
		RequiresRoot().
		Reason("Destroys existing filesystems and partition tables").
		Build(),

	// System modification
	NewProfile("systemctl", "service").
		SystemModRisk(risktypes.RiskTierHigh, "Can modify system services and configuration").
		Build(),
	NewProfile("mount", "umount", "sysctl", "modprobe", "insmod", "rmmod").
		SystemModRisk(risktypes.RiskTierHigh, "Alters kernel or filesystem state").
		RequiresRoot().
		Build(),
	NewProfile("shutdown", "reboot", "halt", "poweroff").
		SystemModRisk(risktypes.RiskTierHigh, "Stops or restarts the machine").
		RequiresRoot().
		Build(),
	NewProfile("iptables", "nft", "ufw", "firewall-cmd").
		SystemModRisk(risktypes.RiskTierHigh, "Rewrites firewall rules").
		NetworkRisk(risktypes.RiskTierMedium, "Controls network traffic").
		RequiresRoot().
		Reason("Rewrites firewall rules").
		Build(),
	NewProfile("useradd", "userdel", "usermod", "groupadd", "passwd", "chpasswd").
		SystemModRisk(risktypes.RiskTierHigh, "Modifies system accounts").
		RequiresRoot().
		Build(),
	NewProfile("crontab").
		SystemModRisk(risktypes.RiskTierMedium, "Installs persistent scheduled commands").
		Build(),
	NewProfile("kill", "pkill", "killall").
		SystemModRisk(risktypes.RiskTierMedium, "Terminates running processes").
		Build(),

	// File modification
	NewProfile("chmod", "chown", "chgrp", "chattr").
		FileModRisk(risktypes.RiskTierMedium, "Changes file permissions or ownership").
		Build(),
	NewProfile("mv", "cp", "ln", "touch", "mkdir", "tee", "truncate").
		FileModRisk(risktypes.RiskTierLow, "Writes to the filesystem").
		Perf(80, 8, 1).
		Build(),
	NewProfile("sed", "awk", "patch").
		FileModRisk(risktypes.RiskTierLow, "Can rewrite files in place").
		Perf(100, 16, 64).
		Build(),
	NewProfile("tar", "gzip", "gunzip", "zip", "unzip", "xz").
		FileModRisk(risktypes.RiskTierLow, "Creates or extracts archives").
		Perf(500, 64, 1024).
		Build(),

	// AI service clients: network plus data exfiltration exposure
	NewProfile("claude", "gemini", "chatgpt", "openai", "ollama").
		NetworkRisk(risktypes.RiskTierHigh, "Always communicates with external AI API").
		DataExfilRisk(risktypes.RiskTierHigh, "May send sensitive data to external service").
		Reason("Always communicates with external AI API").
		Build(),

	// Network (always)
	NewProfile("curl", "wget").
		NetworkRisk(risktypes.RiskTierMedium, "Always performs network operations").
		DataExfilRisk(risktypes.RiskTierMedium, "Can upload local data to remote servers").
		Reason("Always performs network operations").
		Perf(2000, 32, 512).
		Build(),
	NewProfile("nc", "netcat", "ncat", "telnet", "socat").
		NetworkRisk(risktypes.RiskTierMedium, "Establishes arbitrary network connections").
		Build(),
	NewProfile("ssh", "scp", "sftp").
		NetworkRisk(risktypes.RiskTierMedium, "Remote operations via network").
		Perf(3000, 16, 64).
		Build(),
	NewProfile("aws", "gcloud", "az").
		NetworkRisk(risktypes.RiskTierMedium, "Cloud service operations via network").
		DataExfilRisk(risktypes.RiskTierMedium, "Can copy data to cloud storage").
		Reason("Cloud service operations via network").
		Build(),

	// Network (conditional on subcommand or argument shape)
	NewProfile("git").
		ConditionalNetwork(risktypes.RiskTierMedium, "clone", "fetch", "pull", "push", "remote").
		FileModRisk(risktypes.RiskTierLow, "Writes to the working tree").
		Reason("Network operations for clone/fetch/pull/push/remote").
		Perf(800, 64, 256).
		Build(),
	NewProfile("rsync").
		ConditionalNetwork(risktypes.RiskTierMedium).
		FileModRisk(risktypes.RiskTierLow, "Copies files between locations").
		Reason("Network operations when using remote sources/destinations").
		Build(),

	// Package managers: system modification plus network fetch
	NewProfile("apt", "apt-get", "yum", "dnf", "pacman", "zypper", "apk").
		SystemModRisk(risktypes.RiskTierHigh, "Installs or removes system packages").
		NetworkRisk(risktypes.RiskTierMedium, "Downloads packages from remote repositories").
		RequiresRoot().
		Reason("Installs or removes system packages").
		Build(),
	NewProfile("pip", "pip3", "npm", "yarn", "gem", "cargo").
		SystemModRisk(risktypes.RiskTierMedium, "Installs third-party code").
		NetworkRisk(risktypes.RiskTierMedium, "Downloads packages from remote registries").
		Reason("Installs third-party code").
		Build(),

	// Read-only commands
	NewProfile("ls", "pwd", "cat", "head", "tail", "wc", "echo", "printf",
		"date", "whoami", "id", "uname", "which", "type", "file", "stat",
		"du", "df", "env", "true", "false", "sort", "uniq", "tr", "cut",
		"basename", "dirname", "sleep", "uptime", "hostname").
		Reason("Read-only operation with no side effects").
		Perf(20, 4, 8).
		Build(),
	NewProfile("grep", "egrep", "fgrep", "rg", "find", "locate", "diff", "cmp", "test").
		Reason("Read-only search operation").
		Perf(200, 32, 128).
		Build(),
}

// defaultArgumentPatterns flags known-dangerous argument combinations. A
// match escalates the base tier by at least one level and applies the
// pattern's flags regardless of the base command's own profile.
var defaultArgumentPatterns = []ArgumentPattern{
	{
		Substrings: []string{"-rf"},
		Tier:       risktypes.RiskTierHigh,
		Flags:      risktypes.CapDestructive | risktypes.CapFileModification,
		Reason:     "Recursive forced removal",
	},
	{
		Substrings: []string{"-fr"},
		Tier:       risktypes.RiskTierHigh,
		Flags:      risktypes.CapDestructive | risktypes.CapFileModification,
		Reason:     "Recursive forced removal",
	},
	{
		Substrings: []string{"--no-preserve-root"},
		Tier:       risktypes.RiskTierCritical,
		Flags:      risktypes.CapDestructive,
		Reason:     "Explicitly disables root filesystem protection",
	},
	{
		Substrings: []string{"--force"},
		Tier:       risktypes.RiskTierMedium,
		Flags:      0,
		Reason:     "Bypasses safety confirmation",
	},
	{
		Substrings: []string{"-delete"},
		Tier:       risktypes.RiskTierHigh,
		Flags:      risktypes.CapDestructive | risktypes.CapFileModification,
		Reason:     "Deletes matched files",
	},
	{
		Substrings: []string{"of=/dev/"},
		Tier:       risktypes.RiskTierCritical,
		Flags:      risktypes.CapDestructive,
		Reason:     "Raw write to a device node",
	},
	{
		Substrings: []string{"777"},
		Tier:       risktypes.RiskTierMedium,
		Flags:      risktypes.CapFileModification,
		Reason:     "World-writable permissions",
	},
	{
		Substrings: []string{":(){"},
		Tier:       risktypes.RiskTierCritical,
		Flags:      risktypes.CapSystemModification,
		Reason:     "Fork bomb definition",
	},
	{
		Substrings: []string{"/dev/sd"},
		Tier:       risktypes.RiskTierHigh,
		Flags:      risktypes.CapDestructive,
		Reason:     "Direct block device access",
	},
}

// defaultKeywordPatterns matches caller-supplied documentation text. These
// only ever raise the tier derived from the command and its arguments.
var defaultKeywordPatterns = []KeywordPattern{
	{
		Keywords: []string{"permanently delete", "cannot be undone", "irreversibly", "erases all"},
		Tier:     risktypes.RiskTierHigh,
		Flags:    risktypes.CapDestructive,
		Reason:   "Documentation describes irreversible data loss",
	},
	{
		Keywords: []string{"must be run as root", "requires root", "superuser privileges"},
		Tier:     risktypes.RiskTierMedium,
		Flags:    risktypes.CapRequiresRoot,
		Reason:   "Documentation requires root privileges",
	},
	{
		Keywords: []string{"remote server", "uploads", "downloads", "sends data"},
		Tier:     risktypes.RiskTierMedium,
		Flags:    risktypes.CapNetworkAccess,
		Reason:   "Documentation describes network transfer",
	},
	{
		Keywords: []string{"partition table", "formats the", "raw device"},
		Tier:     risktypes.RiskTierHigh,
		Flags:    risktypes.CapSystemModification,
		Reason:   "Documentation describes low-level disk operations",
	},
}

// defaultAlternatives rewrites dangerous commands into reversible ones, or
// provides nothing so the generator falls back to a block message.
var defaultAlternatives = []AlternativeRule{
	{
		Command:   "rm",
		Threshold: risktypes.RiskTierHigh,
		Template:  "mkdir -p {quarantine}/{timestamp} && mv {args} {quarantine}/{timestamp}/",
	},
	{
		Command:   "shred",
		Threshold: risktypes.RiskTierHigh,
		Template:  "mkdir -p {quarantine}/{timestamp} && mv {args} {quarantine}/{timestamp}/",
	},
	{
		Command:   "chmod",
		Threshold: risktypes.RiskTierHigh,
		Template:  "stat -c '%a %n' {args}",
	},
}

// DefaultTable returns the compiled-in rule table. The definitions are
// validated at package init; a broken default table is a programming error.
func DefaultTable() *Table {
	table, err := NewTable(DefaultVersion, defaultProfileDefinitions,
		defaultArgumentPatterns, defaultKeywordPatterns, defaultAlternatives)
	if err != nil {
		panic("ruleset: invalid default table: " + err.Error())
	}
	return table
}
