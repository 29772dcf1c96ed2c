package banuid

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
)

const (
	// HostnameEnv names the variable container runtimes set to the pod or
	// container name.
	HostnameEnv = "HOSTNAME"

	// MachineIDPath is the systemd machine id file.
	MachineIDPath = "/etc/machine-id"
)

// DeriveShardID hashes the host identity and the current pid into a shard
// id. It never fails: missing identity sources fall back to the empty string.
//
// Two processes can land on the same shard id (13 bits leave room for birthday
// collisions after a few hundred processes); deployments that need a
// guarantee pass an explicit id to WithShardID.
func DeriveShardID() uint16 {
	return ShardIDFor(HostIdentity(), os.Getpid())
}

// HostIdentity returns the first non-empty of the HOSTNAME variable and the
// machine id file, or "" if neither is available.
func HostIdentity() string {
	return hostIdentity(os.Getenv, os.ReadFile)
}

// ShardIDFor is the deterministic core of DeriveShardID: FNV-1a (64 bit) of
// identity followed by the decimal pid, masked to 13 bits.
func ShardIDFor(identity string, pid int) uint16 {
	h := fnv.New64a()
	h.Write([]byte(identity))
	h.Write([]byte(strconv.Itoa(pid)))
	return uint16(h.Sum64() & uint64(MaxShardID))
}

func hostIdentity(getenv func(string) string, readFile func(string) ([]byte, error)) string {
	if host := getenv(HostnameEnv); host != "" {
		return host
	}
	if b, err := readFile(MachineIDPath); err == nil {
		return strings.TrimSpace(string(b))
	}
	return ""
}
