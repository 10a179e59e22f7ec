package opengl

// MaxSpotLights bounds the spot light uniform arrays; one per track slot
// across three halls plus headroom.
const (
	MaxSpotLights  = 32
	MaxPointLights = 8
)

const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 mvp;
uniform mat4 model;
uniform mat3 normalMatrix;
uniform vec2 uvRepeat;

out vec3 fragWorldPos;
out vec3 fragNormal;
out vec2 fragUV;
out vec4 fragColor;

void main() {
    gl_Position  = mvp * vec4(inPosition, 1.0);
    fragWorldPos = (model * vec4(inPosition, 1.0)).xyz;
    fragNormal   = normalMatrix * inNormal;
    fragUV       = inUV * uvRepeat;
    fragColor    = inColor;
}
` + "\x00"

const fragSrc = `
#version 410 core
#define MAX_SPOT_LIGHTS 32
#define MAX_POINT_LIGHTS 8

in vec3 fragWorldPos;
in vec3 fragNormal;
in vec2 fragUV;
in vec4 fragColor;

out vec4 outColor;

uniform vec3  ambientColor;
uniform vec3  lightDir;
uniform vec3  lightColor;
uniform float lightIntensity;

uniform int   pointLightCount;
uniform vec3  pointLightPos[MAX_POINT_LIGHTS];
uniform vec3  pointLightColor[MAX_POINT_LIGHTS];
uniform float pointLightIntensity[MAX_POINT_LIGHTS];
uniform float pointLightRange[MAX_POINT_LIGHTS];

uniform int   spotLightCount;
uniform vec3  spotLightPos[MAX_SPOT_LIGHTS];
uniform vec3  spotLightDir[MAX_SPOT_LIGHTS];
uniform vec3  spotLightColor[MAX_SPOT_LIGHTS];
uniform float spotLightIntensity[MAX_SPOT_LIGHTS];
uniform float spotLightRange[MAX_SPOT_LIGHTS];
uniform float spotLightInner[MAX_SPOT_LIGHTS];
uniform float spotLightOuter[MAX_SPOT_LIGHTS];

uniform vec3 cameraPos;

uniform vec3  matAlbedo;
uniform vec3  matSpecular;
uniform float matShininess;
uniform float matOpacity;
uniform bool  unlit;

uniform sampler2D albedoTex;
uniform bool      hasTexture;

vec3 calcSpecular(vec3 N, vec3 L, vec3 V) {
    vec3 H = normalize(L + V);
    return matSpecular * pow(max(dot(N, H), 0.0), matShininess);
}

float attenuate(float dist, float range) {
    if (range <= 0.0) return 1.0;
    float x = clamp(1.0 - dist / range, 0.0, 1.0);
    return x * x;
}

void main() {
    vec4 baseColor = fragColor * vec4(matAlbedo, 1.0);
    if (hasTexture) {
        baseColor *= texture(albedoTex, fragUV);
    }
    baseColor.a *= matOpacity;
    if (baseColor.a < 0.01) {
        discard;
    }

    if (unlit) {
        outColor = baseColor;
        return;
    }

    vec3 N = normalize(fragNormal);
    vec3 V = normalize(cameraPos - fragWorldPos);
    // Walls and labels are double sided: light the face we are looking at.
    if (dot(N, V) < 0.0) N = -N;

    vec3 albedo = baseColor.rgb;
    vec3 result = ambientColor * albedo;

    vec3 L = normalize(-lightDir);
    float diff = max(dot(N, L), 0.0);
    result += (albedo * diff + calcSpecular(N, L, V) * step(0.0, diff)) * lightColor * lightIntensity;

    for (int i = 0; i < pointLightCount; i++) {
        vec3 toLight = pointLightPos[i] - fragWorldPos;
        float dist = length(toLight);
        vec3 Lp = toLight / max(dist, 0.0001);
        float d = max(dot(N, Lp), 0.0);
        float att = attenuate(dist, pointLightRange[i]);
        result += (albedo * d + calcSpecular(N, Lp, V)) * pointLightColor[i] * pointLightIntensity[i] * att;
    }

    for (int i = 0; i < spotLightCount; i++) {
        vec3 toLight = spotLightPos[i] - fragWorldPos;
        float dist = length(toLight);
        vec3 Ls = toLight / max(dist, 0.0001);
        float theta = dot(Ls, normalize(-spotLightDir[i]));
        float eps = max(spotLightInner[i] - spotLightOuter[i], 0.0001);
        float cone = clamp((theta - spotLightOuter[i]) / eps, 0.0, 1.0);
        if (cone <= 0.0) continue;
        float d = max(dot(N, Ls), 0.0);
        float att = attenuate(dist, spotLightRange[i]);
        result += (albedo * d + calcSpecular(N, Ls, V)) * spotLightColor[i] * spotLightIntensity[i] * att * cone;
    }

    outColor = vec4(result, baseColor.a);
}
` + "\x00"
